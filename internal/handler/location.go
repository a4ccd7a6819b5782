package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/crbservicos/field-api/internal/repository"
)

// LocationHandler exposes CRUD over serviced locations.  Listing is open to
// any authenticated user; writes are admin-only (enforced in the router).
type LocationHandler struct {
	Locations LocationStore
}

func NewLocationHandler(locations LocationStore) *LocationHandler {
	return &LocationHandler{Locations: locations}
}

// locationReq is the request schema shared by create and update.
type locationReq struct {
	City string  `json:"city"`
	Name string  `json:"name"`
	Area float64 `json:"area"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// List handles GET /api/locations.
func (h *LocationHandler) List(c echo.Context) error {
	items, err := h.Locations.List(c.Request().Context())
	if err != nil {
		return serverError(c, "Error fetching locations", err)
	}
	if items == nil {
		items = []repository.Location{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /api/locations.
func (h *LocationHandler) Create(c echo.Context) error {
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	l := repository.Location{City: req.City, Name: req.Name, Area: req.Area, Lat: req.Lat, Lng: req.Lng}
	if err := h.Locations.Create(c.Request().Context(), &l); err != nil {
		return serverError(c, "Error creating location", err)
	}
	return c.JSON(http.StatusCreated, l)
}

// Update handles PUT /api/locations/:id.
func (h *LocationHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	l := repository.Location{ID: id, City: req.City, Name: req.Name, Area: req.Area, Lat: req.Lat, Lng: req.Lng}
	if err := h.Locations.Update(c.Request().Context(), &l); err != nil {
		return serverError(c, "Error updating location", err)
	}
	return c.JSON(http.StatusOK, l)
}

// Delete handles DELETE /api/locations/:id.
func (h *LocationHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Locations.Delete(c.Request().Context(), id); err != nil {
		return serverError(c, "Error deleting location", err)
	}
	return c.NoContent(http.StatusNoContent)
}
