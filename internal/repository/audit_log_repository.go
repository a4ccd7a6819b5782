package repository

import (
	"context"
	"database/sql"
	"time"
)

// AuditLog is one immutable trail entry written when an administrator
// performs a destructive action.  Admin and record identifiers are stored
// as strings snapshotting the state at deletion time, so an entry stays
// meaningful after the user or record row is gone.  The API never updates
// or deletes these rows.
type AuditLog struct {
	ID            uint64    `json:"id"`
	AdminID       string    `json:"adminId"`
	AdminUsername string    `json:"adminUsername"`
	Action        string    `json:"action"`
	RecordID      string    `json:"recordId"`
	Details       string    `json:"details"`
	Timestamp     time.Time `json:"timestamp"`
}

type AuditLogRepo struct{ DB *sql.DB }

func NewAuditLogRepo(db *sql.DB) *AuditLogRepo { return &AuditLogRepo{DB: db} }

// List returns the full audit trail, newest entries first.  Insertion
// happens inside the record repository's delete transaction; this
// repository only reads.
func (r *AuditLogRepo) List(ctx context.Context) ([]AuditLog, error) {
	const q = `SELECT id, admin_id, admin_username, action, record_id, details, timestamp
	           FROM audit_logs ORDER BY timestamp DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditLog
	for rows.Next() {
		var a AuditLog
		if err := rows.Scan(&a.ID, &a.AdminID, &a.AdminUsername, &a.Action, &a.RecordID, &a.Details, &a.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
