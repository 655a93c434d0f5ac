package auth

import (
	"context"

	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/repository"
	"roulette_sentinel/internal/service"
	"roulette_sentinel/pkg/logger"
	"roulette_sentinel/pkg/pass"
	"roulette_sentinel/pkg/token"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func (s *serv) Register(ctx context.Context, user *model.User) (*model.AuthData, error) {
	// Хэширование пароля пользователя
	passwordHash, err := pass.HashPassword(user.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	created := *user
	created.Password = passwordHash

	var accessToken string

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Создать пользователя в бд
		created.ID, err = s.userRepo.CreateUser(ctx, &created)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return service.ErrUserExists
			}
			return err
		}

		// 2. Создать access токен
		accessToken, err = token.GenerateAccessToken(
			&created,
			s.jwtConfig.AccessTokenSecretKey(),
			s.jwtConfig.AccessTokenDuration())
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{"user_id": created.ID, "login": created.Login}).Info("user registered")

	return &model.AuthData{
		UserID:      created.ID,
		AccessToken: accessToken,
	}, nil
}
