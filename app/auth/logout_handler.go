package auth

import (
	"catalog/pkg/httperror"
	"context"
	"errors"
	"net/http"
)

type LogoutHandler struct {
	service *Service
}

func NewLogoutHandler(service *Service) *LogoutHandler {
	return &LogoutHandler{
		service: service,
	}
}

type LogoutRequest struct{}

type LogoutResponse struct{}

func (LogoutResponse) StatusCode() int {
	return http.StatusNoContent
}

func (h LogoutHandler) Handle(ctx context.Context, _ *LogoutRequest) (*LogoutResponse, error) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, UnauthenticatedError()
	}

	if err := h.service.Logout(ctx, principal); err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return nil, UnauthenticatedError()
		}
		return nil, httperror.FromError("auth.logout", err)
	}

	return &LogoutResponse{}, nil
}

func UnauthenticatedError() *httperror.Error {
	return httperror.Unauthorized("auth.unauthenticated", "Unauthenticated.", nil)
}
