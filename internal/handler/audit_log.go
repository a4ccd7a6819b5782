package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crbservicos/field-api/internal/repository"
)

// AuditLogHandler exposes the read-only audit trail to administrators.
// There are no write endpoints; entries appear solely as a side effect of
// destructive admin actions.
type AuditLogHandler struct {
	Logs AuditLogStore
}

func NewAuditLogHandler(logs AuditLogStore) *AuditLogHandler {
	return &AuditLogHandler{Logs: logs}
}

// List handles GET /api/audit-log, newest entries first.
func (h *AuditLogHandler) List(c echo.Context) error {
	items, err := h.Logs.List(c.Request().Context())
	if err != nil {
		return serverError(c, "Error fetching audit logs", err)
	}
	if items == nil {
		items = []repository.AuditLog{}
	}
	return c.JSON(http.StatusOK, items)
}
