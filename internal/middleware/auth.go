package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/contactbook/internal/apperr"
	"github.com/sudo-init-do/contactbook/internal/user"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

// JWT resolves the bearer token to a user and stores it in the context.
func JWT(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return apperr.Auth("Not authorized")
			}
			u, err := a.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, u)
			c.Set(ContextUserIDKey, u.ID)
			return next(c)
		}
	}
}

// CurrentUser returns the user put in the context by JWT.
func CurrentUser(c echo.Context) (*user.User, error) {
	u, ok := c.Get(ContextUserKey).(*user.User)
	if !ok || u == nil {
		return nil, apperr.Auth("Not authorized")
	}
	return u, nil
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
