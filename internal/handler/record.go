package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crbservicos/field-api/internal/queue"
	"github.com/crbservicos/field-api/internal/repository"
)

// RecordHandler exposes the work-record endpoints: listing with an optional
// operator filter, record creation, incremental photo uploads, closing a
// record by setting its end time, and admin deletion with an audit trail.
type RecordHandler struct {
	Records   RecordStore
	Users     UserStore
	UploadDir string
	// Publish forwards an audit event to the message broker after a
	// deletion.  Best effort: failures are logged and ignored.  Nil
	// disables publishing (tests, broker-less deployments).
	Publish func(ctx context.Context, ev queue.RecordDeletedEvent) error
}

func NewRecordHandler(records RecordStore, users UserStore, uploadDir string,
	publish func(ctx context.Context, ev queue.RecordDeletedEvent) error) *RecordHandler {
	return &RecordHandler{Records: records, Users: users, UploadDir: uploadDir, Publish: publish}
}

type createRecordReq struct {
	OperatorID    uint64    `json:"operatorId"`
	ServiceType   string    `json:"serviceType"`
	ServiceUnit   string    `json:"serviceUnit"`
	LocationID    *uint64   `json:"locationId"`
	LocationName  string    `json:"locationName"`
	LocationArea  float64   `json:"locationArea"`
	ContractGroup string    `json:"contractGroup"`
	GpsUsed       bool      `json:"gpsUsed"`
	StartTime     time.Time `json:"startTime"`
}

type updateRecordReq struct {
	EndTime *time.Time `json:"endTime"`
}

// List handles GET /api/records?operatorId=.  Without the filter every
// record is returned, newest start time first.
func (h *RecordHandler) List(c echo.Context) error {
	var operatorID uint64
	if raw := c.QueryParam("operatorId"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid operatorId"})
		}
		operatorID = n
	}
	items, err := h.Records.List(c.Request().Context(), operatorID)
	if err != nil {
		return serverError(c, "Error fetching records", err)
	}
	if items == nil {
		items = []repository.Record{}
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/records/:id.
func (h *RecordHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	rec, err := h.Records.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Record not found"})
		}
		return serverError(c, "Error fetching record", err)
	}
	return c.JSON(http.StatusOK, rec)
}

// Create handles POST /api/records.  Any authenticated user may open a
// record; the referenced operator must exist, and their current name is
// snapshotted onto the record.
func (h *RecordHandler) Create(c echo.Context) error {
	var req createRecordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}

	ctx := c.Request().Context()
	operator, err := h.Users.GetByID(ctx, req.OperatorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Operator not found"})
		}
		return serverError(c, "Error creating record", err)
	}

	rec := repository.Record{
		OperatorID:    operator.ID,
		OperatorName:  operator.Name,
		ServiceType:   req.ServiceType,
		ServiceUnit:   req.ServiceUnit,
		LocationID:    req.LocationID,
		LocationName:  req.LocationName,
		LocationArea:  req.LocationArea,
		ContractGroup: req.ContractGroup,
		GpsUsed:       req.GpsUsed,
		StartTime:     req.StartTime,
	}
	if err := h.Records.Create(ctx, &rec); err != nil {
		return serverError(c, "Error creating record", err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// Update handles PUT /api/records/:id.  The only mutable field is endTime:
// a timestamp closes the record, null reopens it.
func (h *RecordHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req updateRecordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	rec, err := h.Records.SetEndTime(c.Request().Context(), id, req.EndTime)
	if err != nil {
		return serverError(c, "Error updating record", err)
	}
	return c.JSON(http.StatusOK, rec)
}

// Delete handles DELETE /api/records/:id (admin-only).  The record is
// removed and exactly one audit entry is written in the same transaction;
// a missing record is reported before any trail entry can be produced.
func (h *RecordHandler) Delete(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	adminName := getUserName(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	ctx := c.Request().Context()
	rec, err := h.Records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Record not found"})
		}
		return serverError(c, "Error deleting record", err)
	}

	entry := repository.AuditLog{
		AdminID:       strconv.FormatUint(adminID, 10),
		AdminUsername: adminName,
		Action:        "DELETE",
		RecordID:      strconv.FormatUint(rec.ID, 10),
		Details: fmt.Sprintf("Deleted record: %s at %s, %s.",
			rec.ServiceType, rec.LocationName, rec.ContractGroup),
	}
	if err := h.Records.DeleteWithAudit(ctx, id, &entry); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Record not found"})
		}
		return serverError(c, "Error deleting record", err)
	}

	if h.Publish != nil {
		ev := queue.RecordDeletedEvent{
			RecordID:      rec.ID,
			AdminID:       adminID,
			AdminName:     adminName,
			ServiceType:   rec.ServiceType,
			LocationName:  rec.LocationName,
			ContractGroup: rec.ContractGroup,
			DeletedAt:     time.Now().UTC(),
		}
		// Detached from the request context so a slow broker cannot
		// delay the response.
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.Publish(pubCtx, ev); err != nil {
				log.Printf("record delete: audit event publish failed: %v", err)
			}
		}()
	}

	return c.NoContent(http.StatusNoContent)
}
