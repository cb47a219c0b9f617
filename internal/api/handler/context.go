package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gymcore/gym-api/internal/api/middleware"
	"github.com/gymcore/gym-api/internal/core/domain"
)

// dataResponse is the success envelope for single resources.
type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// listResponse is the success envelope for paginated listings.
type listResponse struct {
	Success    bool       `json:"success"`
	Data       any        `json:"data"`
	Pagination pagination `json:"pagination"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func success(data any) dataResponse { return dataResponse{Success: true, Data: data} }

// caller returns the identity injected by the Auth middleware. Its absence
// means the route was registered without Auth.
func caller(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs struct-tag
// validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid payload")
	}
	return c.Validate(req)
}

// queryInt parses an optional integer query parameter.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.Invalid(name + " must be a non-negative integer")
	}
	return n, nil
}

func pageParams(c echo.Context) (page, limit int, err error) {
	if page, err = queryInt(c, "page"); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(c, "limit"); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}
