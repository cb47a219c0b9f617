package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gymcore/gym-api/internal/api/middleware"
	"github.com/gymcore/gym-api/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	secureCookie bool
}

// NewAuthHandler wires the account endpoints. secureCookie marks the token
// cookie Secure and should be true outside development.
func NewAuthHandler(authService ports.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name             *string `json:"name"             validate:"omitempty,min=1,max=120"`
	FavoriteCenterID *string `json:"favoriteCenterId" validate:"omitempty,uuid"`
	ClearFavorite    bool    `json:"clearFavorite"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8"`
}

type loginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      any       `json:"user"`
}

// Register creates a pending member account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, success(user))
}

// Login authenticates a user, returns the token and sets it as a cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, loginResponse{
		Success:   true,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      res.User,
	})
}

// Logout clears the token cookie. Bearer tokens stay valid until they expire.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Me(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(user))
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), id, ports.ProfileInput{
		Name:             req.Name,
		FavoriteCenterID: req.FavoriteCenterID,
		ClearFavorite:    req.ClearFavorite,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(user))
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "password updated"})
}
