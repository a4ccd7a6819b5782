package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/crbservicos/field-api/internal/repository"
	"github.com/crbservicos/field-api/internal/utils"
)

// UserHandler exposes admin-only CRUD over operator and admin accounts.
// Passwords are bcrypt-hashed before they reach the store and never appear
// in any response.
type UserHandler struct {
	Users      UserStore
	Tokens     TokenStore
	BcryptCost int
}

func NewUserHandler(users UserStore, tokens TokenStore, bcryptCost int) *UserHandler {
	return &UserHandler{Users: users, Tokens: tokens, BcryptCost: bcryptCost}
}

type userReq struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Password    string          `json:"password"`
	Role        string          `json:"role"`
	Assignments json.RawMessage `json:"assignments"`
}

// userPart is the response shape for create and update: the stored entity
// minus credential and bookkeeping fields.
type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// List handles GET /api/users.  The password hash is excluded at the query
// level and additionally blocked from serialization by the model's tags.
func (h *UserHandler) List(c echo.Context) error {
	items, err := h.Users.List(c.Request().Context())
	if err != nil {
		return serverError(c, "Error fetching users", err)
	}
	if items == nil {
		items = []repository.User{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /api/users.  Name, email, password and role are all
// required; a duplicate email is rejected before and after the insert so
// the unique constraint can never silently create a second account.
func (h *UserHandler) Create(c echo.Context) error {
	var req userReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please provide all required fields"})
	}

	ctx := c.Request().Context()
	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "User with this email already exists"})
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return serverError(c, "Error creating user", err)
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return serverError(c, "Error creating user", err)
	}
	u := repository.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         normalizeRole(req.Role),
		Assignments:  req.Assignments,
	}
	if err := h.Users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "User with this email already exists"})
		}
		return serverError(c, "Error creating user", err)
	}
	return c.JSON(http.StatusCreated, userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
}

// Update handles PUT /api/users/:id.  The password is re-hashed only when a
// new one is supplied; an empty password leaves the stored credential
// untouched.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req userReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}

	u := repository.User{
		ID:          id,
		Name:        req.Name,
		Email:       req.Email,
		Role:        normalizeRole(req.Role),
		Assignments: req.Assignments,
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password, h.BcryptCost)
		if err != nil {
			return serverError(c, "Error updating user", err)
		}
		u.PasswordHash = hash
	}
	if err := h.Users.Update(c.Request().Context(), &u); err != nil {
		return serverError(c, "Error updating user", err)
	}
	return c.JSON(http.StatusOK, userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
}

// Delete handles DELETE /api/users/:id.  Removing an account also revokes
// every refresh token it holds, ending all of its sessions.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	ctx := c.Request().Context()
	if err := h.Users.Delete(ctx, id); err != nil {
		return serverError(c, "Error deleting user", err)
	}
	if err := h.Tokens.RevokeAllForUser(ctx, id); err != nil {
		return serverError(c, "Error deleting user", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// normalizeRole upper-cases the submitted role and falls back to OPERATOR
// for anything outside the two known roles.
func normalizeRole(role string) string {
	r := strings.ToUpper(strings.TrimSpace(role))
	if r != "ADMIN" && r != "OPERATOR" {
		return "OPERATOR"
	}
	return r
}
