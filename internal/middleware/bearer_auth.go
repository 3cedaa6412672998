package middleware

import (
	"catalog/app/auth"
	"catalog/pkg/httperror"
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (auth.Principal, error)
}

// NewBearerAuthMiddleware resolves the Authorization bearer token to a
// principal and stores it on the user context. The returned errors are
// rendered by the app's error handler.
func NewBearerAuthMiddleware(authenticator Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bearer, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return auth.UnauthenticatedError()
		}

		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}

		principal, err := authenticator.Authenticate(userCtx, bearer)
		if errors.Is(err, auth.ErrUnauthenticated) {
			return auth.UnauthenticatedError()
		}
		if err != nil {
			return httperror.FromError("auth.authenticate", err)
		}

		c.SetUserContext(auth.WithPrincipal(userCtx, principal))
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
