package handler

// Shared helpers for building echo contexts in tests.

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// newJSONContext builds an echo context carrying a JSON body plus the
// recorder capturing the response.
func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// setParamID attaches the :id path parameter.
func setParamID(c echo.Context, id string) {
	c.SetParamNames("id")
	c.SetParamValues(id)
}

// asIdentity injects the context values JWTAuth would set for a resolved
// identity.
func asIdentity(c echo.Context, id float64, name, role string) {
	c.Set("user_id", id)
	c.Set("user_name", name)
	c.Set("role", role)
}

// decodeBody unmarshals the recorded response body into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// requireStatus asserts the recorded status code.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "unexpected status, body: %s", rec.Body.String())
}
