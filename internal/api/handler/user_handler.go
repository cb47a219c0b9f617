package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Name             string  `json:"name"             validate:"required,max=120"`
	Email            string  `json:"email"            validate:"required,email"`
	Password         string  `json:"password"         validate:"required,min=8"`
	Role             string  `json:"role"             validate:"required,oneof=admin center_admin trainer cleaner member"`
	Status           string  `json:"status"           validate:"omitempty,oneof=pending active inactive"`
	AssignedCenterID *string `json:"assignedCenterId" validate:"omitempty,uuid"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active inactive"`
}

type updateRoleRequest struct {
	Role             string  `json:"role"             validate:"required,oneof=admin center_admin trainer cleaner member"`
	AssignedCenterID *string `json:"assignedCenterId" validate:"omitempty,uuid"`
}

func (h *UserHandler) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	filter := ports.UserFilter{
		CenterID: c.QueryParam("center_id"),
		Page:     page,
		Limit:    limit,
	}
	if raw := c.QueryParam("role"); raw != "" {
		if filter.Role, err = domain.ParseRole(raw); err != nil {
			return err
		}
	}
	if raw := c.QueryParam("status"); raw != "" {
		if filter.Status, err = domain.ParseUserStatus(raw); err != nil {
			return err
		}
	}

	res, err := h.service.List(c.Request().Context(), id, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{
		Success:    true,
		Data:       res.Items,
		Pagination: pagination{Page: res.Page, Limit: res.Limit, Total: res.Total},
	})
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(user))
}

func (h *UserHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}
	in := ports.CreateUserInput{
		Email:            req.Email,
		Name:             req.Name,
		Password:         req.Password,
		Role:             role,
		AssignedCenterID: req.AssignedCenterID,
	}
	if req.Status != "" {
		if in.Status, err = domain.ParseUserStatus(req.Status); err != nil {
			return err
		}
	}

	user, err := h.service.Create(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, success(user))
}

func (h *UserHandler) UpdateStatus(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	status, err := domain.ParseUserStatus(req.Status)
	if err != nil {
		return err
	}

	user, err := h.service.UpdateStatus(c.Request().Context(), id, c.Param("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(user))
}

func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req updateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	user, err := h.service.UpdateRole(c.Request().Context(), id, c.Param("id"), role, req.AssignedCenterID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(user))
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
