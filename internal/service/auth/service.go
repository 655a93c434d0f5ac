package auth

import (
	"roulette_sentinel/internal/config"
	"roulette_sentinel/internal/repository"
	"roulette_sentinel/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

type serv struct {
	txManager trm.Manager
	userRepo  repository.UserRepository
	jwtConfig config.JWTConfig
}

func NewService(txManager trm.Manager, userRepo repository.UserRepository, jwtConfig config.JWTConfig) service.AuthService {
	return &serv{
		txManager: txManager,
		userRepo:  userRepo,
		jwtConfig: jwtConfig,
	}
}
