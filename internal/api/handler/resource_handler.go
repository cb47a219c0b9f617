package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymcore/gym-api/internal/core/ports"
)

// ListQuery names the list filters a resource accepts from the query string.
type ListQuery struct {
	ByCenter bool // center_id
	ByOwner  bool // user_id
}

// ResourceHandler serves uniform CRUD for catalog and plan resources.
type ResourceHandler[T any] struct {
	service ports.CatalogService[T]
	query   ListQuery
}

func NewResourceHandler[T any](service ports.CatalogService[T], query ListQuery) *ResourceHandler[T] {
	return &ResourceHandler[T]{service: service, query: query}
}

func (h *ResourceHandler[T]) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	filter := ports.ListFilter{Page: page, Limit: limit}
	if h.query.ByCenter {
		filter.CenterID = c.QueryParam("center_id")
	}
	if h.query.ByOwner {
		filter.OwnerID = c.QueryParam("user_id")
	}

	res, err := h.service.List(c.Request().Context(), id, filter)
	if err != nil {
		return err
	}
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, listResponse{
		Success:    true,
		Data:       items,
		Pagination: pagination{Page: res.Page, Limit: res.Limit, Total: res.Total},
	})
}

func (h *ResourceHandler[T]) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	item, err := h.service.Get(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(item))
}

func (h *ResourceHandler[T]) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	item := new(T)
	if err := bindAndValidate(c, item); err != nil {
		return err
	}
	created, err := h.service.Create(c.Request().Context(), id, item)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, success(created))
}

func (h *ResourceHandler[T]) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	item := new(T)
	if err := bindAndValidate(c, item); err != nil {
		return err
	}
	updated, err := h.service.Update(c.Request().Context(), id, c.Param("id"), item)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(updated))
}

func (h *ResourceHandler[T]) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
