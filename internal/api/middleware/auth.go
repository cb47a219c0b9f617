package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

// TokenCookie is the cookie login sets alongside the returned token.
const TokenCookie = "token"

const identityKey = "identity"

// Auth verifies the bearer credential and injects the caller's Identity into
// the echo context. The Authorization header takes precedence over the cookie.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := credential(c)
			if err != nil {
				return err
			}

			id, err := tokens.Verify(raw)
			if err != nil {
				return err
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

func credential(c echo.Context) (string, error) {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", domain.ErrInvalidToken
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", domain.ErrUnauthenticated
}

// SetIdentity stores id on the request context.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity injected by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}
