package auth

import (
	"context"

	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/repository"
	"roulette_sentinel/internal/service"
	"roulette_sentinel/pkg/pass"
	"roulette_sentinel/pkg/token"

	"github.com/pkg/errors"
)

func (s *serv) Login(ctx context.Context, login, password string) (*model.AuthData, error) {
	// Получение пользователя из бд по логину
	user, err := s.userRepo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, service.ErrInvalidCredentials
		}
		return nil, err
	}

	// Верификация пароля
	if !pass.VerifyPassword(user.Password, password) {
		return nil, service.ErrInvalidCredentials
	}

	accessToken, err := token.GenerateAccessToken(
		user,
		s.jwtConfig.AccessTokenSecretKey(),
		s.jwtConfig.AccessTokenDuration())
	if err != nil {
		return nil, err
	}

	return &model.AuthData{
		UserID:      user.ID,
		AccessToken: accessToken,
	}, nil
}
