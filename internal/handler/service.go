package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/crbservicos/field-api/internal/repository"
)

// ServiceHandler exposes CRUD over service reference data.
type ServiceHandler struct {
	Services ServiceStore
}

func NewServiceHandler(services ServiceStore) *ServiceHandler {
	return &ServiceHandler{Services: services}
}

type serviceReq struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// List handles GET /api/services.
func (h *ServiceHandler) List(c echo.Context) error {
	items, err := h.Services.List(c.Request().Context())
	if err != nil {
		return serverError(c, "Error fetching services", err)
	}
	if items == nil {
		items = []repository.Service{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /api/services.
func (h *ServiceHandler) Create(c echo.Context) error {
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	s := repository.Service{Name: req.Name, Unit: req.Unit}
	if err := h.Services.Create(c.Request().Context(), &s); err != nil {
		return serverError(c, "Error creating service", err)
	}
	return c.JSON(http.StatusCreated, s)
}

// Update handles PUT /api/services/:id.
func (h *ServiceHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	s := repository.Service{ID: id, Name: req.Name, Unit: req.Unit}
	if err := h.Services.Update(c.Request().Context(), &s); err != nil {
		return serverError(c, "Error updating service", err)
	}
	return c.JSON(http.StatusOK, s)
}

// Delete handles DELETE /api/services/:id.
func (h *ServiceHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Services.Delete(c.Request().Context(), id); err != nil {
		return serverError(c, "Error deleting service", err)
	}
	return c.NoContent(http.StatusNoContent)
}
