package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymcore/gym-api/internal/core/ports"
)

type CenterHandler struct {
	service ports.CenterService
}

func NewCenterHandler(service ports.CenterService) *CenterHandler {
	return &CenterHandler{service: service}
}

type centerRequest struct {
	Name       string `json:"name"       validate:"required,max=120"`
	Address    string `json:"address"    validate:"max=255"`
	City       string `json:"city"       validate:"max=120"`
	PostalCode string `json:"postalCode" validate:"max=20"`
	Phone      string `json:"phone"      validate:"max=40"`
}

func (r centerRequest) input() ports.CenterInput {
	return ports.CenterInput{
		Name:       r.Name,
		Address:    r.Address,
		City:       r.City,
		PostalCode: r.PostalCode,
		Phone:      r.Phone,
	}
}

func (h *CenterHandler) List(c echo.Context) error {
	centers, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(centers))
}

func (h *CenterHandler) Get(c echo.Context) error {
	center, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(center))
}

func (h *CenterHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req centerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	center, err := h.service.Create(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, success(center))
}

func (h *CenterHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req centerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	center, err := h.service.Update(c.Request().Context(), id, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(center))
}

func (h *CenterHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
