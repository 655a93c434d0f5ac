package auth

type RegisterRequest struct {
	Name     string `json:"name" validate:"max=64"`
	Login    string `json:"login" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"` // bcrypt режет после 72 байт
}

type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	UserID      int    `json:"user_id"`
	AccessToken string `json:"access_token"`
}
