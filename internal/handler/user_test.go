package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crbservicos/field-api/internal/utils"
)

func TestCreateUserHashesPassword(t *testing.T) {
	users := newFakeUserStore()
	h := NewUserHandler(users, newFakeTokenStore(), 4)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users",
		`{"name":"Ana","email":"ana@example.com","password":"hunter2","role":"operator"}`)
	require.NoError(t, h.Create(c))
	requireStatus(t, rec, http.StatusCreated)

	var resp map[string]any
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Ana", resp["name"])
	assert.Equal(t, "OPERATOR", resp["role"])
	assert.NotContains(t, resp, "password")
	assert.NotContains(t, rec.Body.String(), "hunter2")

	stored, err := users.GetByEmail(c.Request().Context(), "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", stored.PasswordHash)
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, "hunter2"))
}

func TestCreateUserMissingFields(t *testing.T) {
	h := NewUserHandler(newFakeUserStore(), newFakeTokenStore(), 4)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users",
		`{"name":"Ana","email":"ana@example.com"}`)
	require.NoError(t, h.Create(c))
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	h := NewUserHandler(users, newFakeTokenStore(), 4)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users",
		`{"name":"Ana","email":"ana@example.com","password":"pw","role":"ADMIN"}`)
	require.NoError(t, h.Create(c))
	requireStatus(t, rec, http.StatusCreated)

	c, rec = newJSONContext(t, http.MethodPost, "/api/users",
		`{"name":"Other","email":"ana@example.com","password":"pw2","role":"OPERATOR"}`)
	require.NoError(t, h.Create(c))
	requireStatus(t, rec, http.StatusBadRequest)
	assert.Len(t, users.users, 1)
}

func TestListUsersNeverExposesPassword(t *testing.T) {
	users := newFakeUserStore()
	h := NewUserHandler(users, newFakeTokenStore(), 4)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users",
		`{"name":"Bea","email":"bea@example.com","password":"secret","role":"ADMIN"}`)
	require.NoError(t, h.Create(c))
	requireStatus(t, rec, http.StatusCreated)

	c, rec = newJSONContext(t, http.MethodGet, "/api/users", "")
	require.NoError(t, h.List(c))
	requireStatus(t, rec, http.StatusOK)

	var list []map[string]any
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)
	assert.NotContains(t, list[0], "password")
	assert.NotContains(t, list[0], "passwordHash")
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestUpdateUserKeepsPasswordWhenOmitted(t *testing.T) {
	users := newFakeUserStore()
	h := NewUserHandler(users, newFakeTokenStore(), 4)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users",
		`{"name":"Cai","email":"cai@example.com","password":"original","role":"OPERATOR"}`)
	require.NoError(t, h.Create(c))
	requireStatus(t, rec, http.StatusCreated)

	c, rec = newJSONContext(t, http.MethodPut, "/api/users/1",
		`{"name":"Caio","email":"cai@example.com","role":"ADMIN"}`)
	setParamID(c, "1")
	require.NoError(t, h.Update(c))
	requireStatus(t, rec, http.StatusOK)

	stored, err := users.GetByID(c.Request().Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Caio", stored.Name)
	assert.Equal(t, "ADMIN", stored.Role)
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, "original"))

	// Supplying a password rotates the hash.
	c, rec = newJSONContext(t, http.MethodPut, "/api/users/1",
		`{"name":"Caio","email":"cai@example.com","password":"rotated","role":"ADMIN"}`)
	setParamID(c, "1")
	require.NoError(t, h.Update(c))
	requireStatus(t, rec, http.StatusOK)

	stored, err = users.GetByID(c.Request().Context(), 1)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, "rotated"))
}

func TestDeleteUserRevokesSessions(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	h := NewUserHandler(users, tokens, 4)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users",
		`{"name":"Dan","email":"dan@example.com","password":"pw","role":"OPERATOR"}`)
	require.NoError(t, h.Create(c))
	requireStatus(t, rec, http.StatusCreated)

	require.NoError(t, tokens.StoreRefresh(context.Background(), 1, "hash-1", time.Now().Add(time.Hour)))

	c, rec = newJSONContext(t, http.MethodDelete, "/api/users/1", "")
	setParamID(c, "1")
	require.NoError(t, h.Delete(c))
	requireStatus(t, rec, http.StatusNoContent)
	assert.Empty(t, users.users)

	_, err := tokens.ValidateRefresh(context.Background(), "hash-1")
	assert.Error(t, err)
}
