package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Photo phases accepted by AppendPhotos.  They select which of the two
// photo lists on a record receives the new entries.
const (
	PhaseBefore = "BEFORE"
	PhaseAfter  = "AFTER"
)

// Record is one logged service-completion event.  Besides the operator
// foreign key it carries denormalized copies of the operator name and the
// service/location descriptors as they were when the work was logged, so a
// record stays readable even after reference data changes.  The photo
// lists are stored as JSON array columns and are append-only while the
// record is open.
type Record struct {
	ID            uint64     `json:"id"`
	OperatorID    uint64     `json:"operatorId"`
	OperatorName  string     `json:"operatorName"`
	ServiceType   string     `json:"serviceType"`
	ServiceUnit   string     `json:"serviceUnit"`
	LocationID    *uint64    `json:"locationId"`
	LocationName  string     `json:"locationName"`
	LocationArea  float64    `json:"locationArea"`
	ContractGroup string     `json:"contractGroup"`
	GpsUsed       bool       `json:"gpsUsed"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime"`
	BeforePhotos  []string   `json:"beforePhotos"`
	AfterPhotos   []string   `json:"afterPhotos"`
}

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidPhase   = errors.New("phase must be BEFORE or AFTER")
)

type RecordRepo struct{ DB *sql.DB }

func NewRecordRepo(db *sql.DB) *RecordRepo { return &RecordRepo{DB: db} }

// recordColumns is the SELECT list shared by every record query.  The
// operator name prefers the current users row and falls back to the
// snapshot taken at creation when the operator has since been deleted.
const recordColumns = `r.id, r.operator_id, COALESCE(u.name, r.operator_name), r.service_type,
	r.service_unit, r.location_id, r.location_name, r.location_area, r.contract_group,
	r.gps_used, r.start_time, r.end_time, r.before_photos, r.after_photos`

// List returns records newest first.  A non-zero operatorID restricts the
// result to records owned by that operator.
func (r *RecordRepo) List(ctx context.Context, operatorID uint64) ([]Record, error) {
	q := `SELECT ` + recordColumns + `
	      FROM records r LEFT JOIN users u ON u.id = r.operator_id`
	args := []any{}
	if operatorID != 0 {
		q += " WHERE r.operator_id = ?"
		args = append(args, operatorID)
	}
	q += " ORDER BY r.start_time DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single record.  Returns ErrRecordNotFound when no row
// matches.
func (r *RecordRepo) GetByID(ctx context.Context, id uint64) (Record, error) {
	const q = `SELECT ` + recordColumns + `
	           FROM records r LEFT JOIN users u ON u.id = r.operator_id WHERE r.id = ? LIMIT 1`
	rows, err := r.DB.QueryContext(ctx, q, id)
	if err != nil {
		return Record{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Record{}, err
		}
		return Record{}, ErrRecordNotFound
	}
	return scanRecord(rows)
}

// Create inserts a new open record.  Both photo lists start empty and
// end_time stays NULL until the work is finished.  The caller has already
// resolved the operator and snapshotted their name into rec.OperatorName.
func (r *RecordRepo) Create(ctx context.Context, rec *Record) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO records
		 (operator_id, operator_name, service_type, service_unit, location_id, location_name,
		  location_area, contract_group, gps_used, start_time, before_photos, after_photos)
		 VALUES (?,?,?,?,?,?,?,?,?,?, '[]', '[]')`,
		rec.OperatorID, rec.OperatorName, rec.ServiceType, rec.ServiceUnit, nullID(rec.LocationID),
		rec.LocationName, rec.LocationArea, rec.ContractGroup, rec.GpsUsed, rec.StartTime.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	rec.BeforePhotos = []string{}
	rec.AfterPhotos = []string{}
	return nil
}

// SetEndTime sets or clears the record's end time and returns the updated
// row.  Passing nil clears it, reopening the record.
func (r *RecordRepo) SetEndTime(ctx context.Context, id uint64, end *time.Time) (Record, error) {
	var v any
	if end != nil {
		v = end.UTC()
	}
	res, err := r.DB.ExecContext(ctx, "UPDATE records SET end_time=? WHERE id=?", v, id)
	if err != nil {
		return Record{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish a missing row from an unchanged one before failing.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return Record{}, getErr
		}
	}
	return r.GetByID(ctx, id)
}

// AppendPhotos appends urls to one of the record's photo lists, selected by
// phase.  The append is a single JSON_ARRAY_APPEND UPDATE, which MySQL
// executes atomically per statement, so two concurrent uploads to the same
// record cannot lose each other's entries.  Existing entries keep their
// order; new ones land at the tail in the order given.
func (r *RecordRepo) AppendPhotos(ctx context.Context, id uint64, phase string, urls []string) (Record, error) {
	var column string
	switch phase {
	case PhaseBefore:
		column = "before_photos"
	case PhaseAfter:
		column = "after_photos"
	default:
		return Record{}, ErrInvalidPhase
	}

	args := make([]any, 0, len(urls)+1)
	var b strings.Builder
	b.WriteString("UPDATE records SET ")
	b.WriteString(column)
	b.WriteString(" = JSON_ARRAY_APPEND(")
	b.WriteString(column)
	for range urls {
		b.WriteString(", '$', ?")
	}
	b.WriteString(") WHERE id = ?")
	for _, u := range urls {
		args = append(args, u)
	}
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx, b.String(), args...)
	if err != nil {
		return Record{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Record{}, ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// DeleteWithAudit removes the record and writes the audit entry in one
// transaction, so a caller observing the deletion also observes its trail
// entry.  Returns ErrRecordNotFound, with no audit row written, when the
// record does not exist.
func (r *RecordRepo) DeleteWithAudit(ctx context.Context, id uint64, entry *AuditLog) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM records WHERE id=?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrRecordNotFound
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO audit_logs (admin_id, admin_username, action, record_id, details) VALUES (?,?,?,?,?)",
		entry.AdminID, entry.AdminUsername, entry.Action, entry.RecordID, entry.Details); err != nil {
		return err
	}
	return nil
}

// rowScanner covers both *sql.Rows and *sql.Row.
type rowScanner interface{ Scan(dest ...any) error }

func scanRecord(s rowScanner) (Record, error) {
	var (
		rec        Record
		locationID sql.NullInt64
		endTime    sql.NullTime
		before     []byte
		after      []byte
	)
	err := s.Scan(&rec.ID, &rec.OperatorID, &rec.OperatorName, &rec.ServiceType, &rec.ServiceUnit,
		&locationID, &rec.LocationName, &rec.LocationArea, &rec.ContractGroup, &rec.GpsUsed,
		&rec.StartTime, &endTime, &before, &after)
	if err != nil {
		return Record{}, err
	}
	if locationID.Valid {
		v := uint64(locationID.Int64)
		rec.LocationID = &v
	}
	if endTime.Valid {
		t := endTime.Time
		rec.EndTime = &t
	}
	if rec.BeforePhotos, err = decodePhotos(before); err != nil {
		return Record{}, err
	}
	if rec.AfterPhotos, err = decodePhotos(after); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func decodePhotos(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	out := []string{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nullID(id *uint64) any {
	if id == nil {
		return nil
	}
	return *id
}
