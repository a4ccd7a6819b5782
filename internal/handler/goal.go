package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/crbservicos/field-api/internal/repository"
)

// GoalHandler exposes CRUD over monthly contract-group goals (admin-only).
type GoalHandler struct {
	Goals GoalStore
}

func NewGoalHandler(goals GoalStore) *GoalHandler {
	return &GoalHandler{Goals: goals}
}

type goalReq struct {
	ContractGroup string  `json:"contractGroup"`
	Month         string  `json:"month"`
	TargetArea    float64 `json:"targetArea"`
}

// List handles GET /api/goals.
func (h *GoalHandler) List(c echo.Context) error {
	items, err := h.Goals.List(c.Request().Context())
	if err != nil {
		return serverError(c, "Error fetching goals", err)
	}
	if items == nil {
		items = []repository.Goal{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /api/goals.
func (h *GoalHandler) Create(c echo.Context) error {
	var req goalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	g := repository.Goal{ContractGroup: req.ContractGroup, Month: req.Month, TargetArea: req.TargetArea}
	if err := h.Goals.Create(c.Request().Context(), &g); err != nil {
		return serverError(c, "Error creating goal", err)
	}
	return c.JSON(http.StatusCreated, g)
}

// Update handles PUT /api/goals/:id.
func (h *GoalHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req goalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	g := repository.Goal{ID: id, ContractGroup: req.ContractGroup, Month: req.Month, TargetArea: req.TargetArea}
	if err := h.Goals.Update(c.Request().Context(), &g); err != nil {
		return serverError(c, "Error updating goal", err)
	}
	return c.JSON(http.StatusOK, g)
}

// Delete handles DELETE /api/goals/:id.
func (h *GoalHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Goals.Delete(c.Request().Context(), id); err != nil {
		return serverError(c, "Error deleting goal", err)
	}
	return c.NoContent(http.StatusNoContent)
}
