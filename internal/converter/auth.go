package converter

import (
	dto "roulette_sentinel/internal/api/dto/auth"
	"roulette_sentinel/internal/model"
)

func RegisterRequestToUserModel(req *dto.RegisterRequest) *model.User {
	return &model.User{
		Name:     req.Name,
		Login:    req.Login,
		Password: req.Password,
	}
}

func ToAuthResponse(data *model.AuthData) dto.AuthResponse {
	return dto.AuthResponse{
		UserID:      data.UserID,
		AccessToken: data.AccessToken,
	}
}
