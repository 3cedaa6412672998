package auth

import (
	"catalog/domain"
	"context"
	"time"
)

type Repository interface {
	GetUser(ctx context.Context, id uint64) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error

	GetToken(ctx context.Context, id uint64) (domain.AccessToken, error)
	CreateToken(ctx context.Context, token *domain.AccessToken) error
	TouchToken(ctx context.Context, id uint64, usedAt time.Time) error
	DeleteToken(ctx context.Context, id uint64) error
}
