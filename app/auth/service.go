package auth

import (
	"catalog/domain"
	"catalog/pkg/validation"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenName = "api-token"

var ErrUnauthenticated = errors.New("unauthenticated")

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateUserInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

const badCredentialsMessage = "The provided credentials are incorrect."

type Service struct {
	repository Repository
	now        func() time.Time
}

func NewService(repository Repository) *Service {
	return &Service{
		repository: repository,
		now:        time.Now,
	}
}

// Login checks the credentials and issues a new token in the
// "<id>|<secret>" form. Only a digest of the secret is stored.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, error) {
	if err := validation.Struct(in, nil); err != nil {
		return "", err
	}

	user, err := s.repository.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", validation.NewError("email", badCredentialsMessage)
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return "", validation.NewError("email", badCredentialsMessage)
	}

	secret := newSecret()
	token := domain.AccessToken{
		UserID:    user.ID,
		Name:      tokenName,
		Token:     hashSecret(secret),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repository.CreateToken(ctx, &token); err != nil {
		return "", err
	}

	return fmt.Sprintf("%d|%s", token.ID, secret), nil
}

// Authenticate resolves a bearer token to its principal. Any mismatch is
// reported as ErrUnauthenticated; an unreachable store is passed through.
func (s *Service) Authenticate(ctx context.Context, bearer string) (Principal, error) {
	idPart, secret, ok := strings.Cut(bearer, "|")
	if !ok || secret == "" {
		return Principal{}, ErrUnauthenticated
	}

	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		return Principal{}, ErrUnauthenticated
	}

	token, err := s.repository.GetToken(ctx, id)
	if err != nil {
		return Principal{}, unauthenticated(err)
	}

	if subtle.ConstantTimeCompare([]byte(token.Token), []byte(hashSecret(secret))) != 1 {
		return Principal{}, ErrUnauthenticated
	}

	user, err := s.repository.GetUser(ctx, token.UserID)
	if err != nil {
		return Principal{}, unauthenticated(err)
	}

	if err := s.repository.TouchToken(ctx, token.ID, s.now().UTC()); err != nil {
		return Principal{}, err
	}

	return Principal{User: user, TokenID: token.ID}, nil
}

// Logout revokes the token the principal authenticated with.
func (s *Service) Logout(ctx context.Context, p Principal) error {
	err := s.repository.DeleteToken(ctx, p.TokenID)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrUnauthenticated
	}
	return err
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (domain.User, error) {
	if err := validation.Struct(in, nil); err != nil {
		return domain.User{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now().UTC()
	user := domain.User{
		Name:      in.Name,
		Email:     strings.ToLower(in.Email),
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repository.CreateUser(ctx, &user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func unauthenticated(err error) error {
	if errors.Is(err, domain.ErrUnavailable) {
		return err
	}
	return ErrUnauthenticated
}

func newSecret() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
