package auth

import (
	"catalog/pkg/httperror"
	"context"
)

type LoginHandler struct {
	service *Service
}

func NewLoginHandler(service *Service) *LoginHandler {
	return &LoginHandler{
		service: service,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h LoginHandler) Handle(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	token, err := h.service.Login(ctx, LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, httperror.FromError("auth.login", err)
	}

	return &LoginResponse{Token: token}, nil
}
