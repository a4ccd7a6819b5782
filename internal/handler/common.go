package handler // handler defines http handlers

import (
    "context"      // context threads cancellation into the store interfaces
    "errors"       // errors provides sentinel values used in getUserID
    "net/http"     // status code constants
    "strconv"      // strconv converts strings to numeric types
    "time"         // time is referenced by the record store contract

    "github.com/crbservicos/field-api/internal/repository" // repository holds the data access layer
    "github.com/labstack/echo/v4"                          // echo defines request context types
)

// The store interfaces below describe exactly what each handler needs from
// the persistence layer.  main wires the MySQL repositories in; tests wire
// in-memory fakes.  The handlers never see *sql.DB directly.

// UserStore persists users.  Password hashes are produced by the handlers
// and only ever travel through PasswordHash.
type UserStore interface {
    List(ctx context.Context) ([]repository.User, error)
    GetByID(ctx context.Context, id uint64) (repository.User, error)
    GetByEmail(ctx context.Context, email string) (repository.User, error)
    Create(ctx context.Context, u *repository.User) error
    Update(ctx context.Context, u *repository.User) error
    Delete(ctx context.Context, id uint64) error
}

// LocationStore persists serviced locations.
type LocationStore interface {
    List(ctx context.Context) ([]repository.Location, error)
    Create(ctx context.Context, l *repository.Location) error
    Update(ctx context.Context, l *repository.Location) error
    Delete(ctx context.Context, id uint64) error
}

// ServiceStore persists service reference data.
type ServiceStore interface {
    List(ctx context.Context) ([]repository.Service, error)
    Create(ctx context.Context, s *repository.Service) error
    Update(ctx context.Context, s *repository.Service) error
    Delete(ctx context.Context, id uint64) error
}

// GoalStore persists monthly goals.
type GoalStore interface {
    List(ctx context.Context) ([]repository.Goal, error)
    Create(ctx context.Context, g *repository.Goal) error
    Update(ctx context.Context, g *repository.Goal) error
    Delete(ctx context.Context, id uint64) error
}

// RecordStore persists work records.  DeleteWithAudit removes a record and
// writes its audit trail entry atomically with respect to the caller.
type RecordStore interface {
    List(ctx context.Context, operatorID uint64) ([]repository.Record, error)
    GetByID(ctx context.Context, id uint64) (repository.Record, error)
    Create(ctx context.Context, rec *repository.Record) error
    SetEndTime(ctx context.Context, id uint64, end *time.Time) (repository.Record, error)
    AppendPhotos(ctx context.Context, id uint64, phase string, urls []string) (repository.Record, error)
    DeleteWithAudit(ctx context.Context, id uint64, entry *repository.AuditLog) error
}

// AuditLogStore reads the audit trail.  Entries are only ever written as a
// side effect of record deletion, inside RecordStore.DeleteWithAudit.
type AuditLogStore interface {
    List(ctx context.Context) ([]repository.AuditLog, error)
}

// TokenStore persists refresh token hashes.
type TokenStore interface {
    StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
    ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
    RevokeByHash(ctx context.Context, tokenHash string) error
    RevokeAllForUser(ctx context.Context, userID uint64) error
}

// getUserID extracts the user_id set by the JWT middleware and converts it
// to uint64.  JWT numeric claims decode as float64, so several runtime
// types are accepted.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getUserName extracts the display name carried in the access token.
func getUserName(c echo.Context) string {
    if s, ok := c.Get("user_name").(string); ok {
        return s
    }
    return ""
}

// serverError reports an unexpected store or filesystem failure.  The
// underlying message is surfaced verbatim; the API is an internal tool and
// favors diagnosability over hiding details.
func serverError(c echo.Context, msg string, err error) error {
    return c.JSON(http.StatusInternalServerError, echo.Map{"message": msg, "error": err.Error()})
}
