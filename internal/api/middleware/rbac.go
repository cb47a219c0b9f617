package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/gymcore/gym-api/internal/core/domain"
)

// RequireRole rejects callers whose role is not one of roles. It must run
// after Auth.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if !id.HasRole(roles...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
