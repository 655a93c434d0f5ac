package api

import (
	"net/http"

	"roulette_sentinel/internal/repository"
	"roulette_sentinel/internal/service"
	"roulette_sentinel/internal/service/roulette"
	"roulette_sentinel/internal/service/simulator"
	"roulette_sentinel/pkg/logger"
	"roulette_sentinel/pkg/resp"

	"github.com/pkg/errors"
)

// StatusFor - HTTP статус для ошибки сервиса
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUserExists), errors.Is(err, service.ErrSessionStopped):
		return http.StatusConflict
	case errors.Is(err, repository.ErrDuplicate):
		// параллельная запись того же раунда
		return http.StatusConflict
	case errors.Is(err, service.ErrNoActiveSession):
		return http.StatusNotFound
	case errors.Is(err, roulette.ErrInvalidNumber), errors.Is(err, simulator.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError - ответ с ошибкой сервиса. Внутренние ошибки не показываются клиенту
func WriteServiceError(w http.ResponseWriter, op string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).Errorf("%s failed", op)
		resp.WriteError(w, status, "internal error")
		return
	}

	resp.WriteError(w, status, err.Error())
}
