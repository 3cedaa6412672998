package auth

import (
	"catalog/domain"
	"catalog/pkg/notification"
	"context"
)

// Principal is the user a request was authenticated as, together with the
// token that was presented.
type Principal struct {
	User    domain.User
	TokenID uint64
}

func (p Principal) Recipient() notification.Recipient {
	return notification.Recipient{
		ID:    p.User.ID,
		Name:  p.User.Name,
		Email: p.User.Email,
	}
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Recipients returns the authenticated user as a notification recipient, or
// nothing for anonymous requests.
func Recipients(ctx context.Context) []notification.Recipient {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil
	}
	return []notification.Recipient{p.Recipient()}
}
