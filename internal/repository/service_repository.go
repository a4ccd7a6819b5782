package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Service is reference data describing a kind of work (e.g. mowing) and the
// unit it is measured in.  Records copy the name and unit as free text at
// creation time instead of holding a foreign key; that denormalization is
// deliberate and mirrors how the mobile clients submit records.
type Service struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

var ErrServiceNotFound = errors.New("service not found")

type ServiceRepo struct{ DB *sql.DB }

func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{DB: db} }

// List returns all services ordered by name ascending.
func (r *ServiceRepo) List(ctx context.Context) ([]Service, error) {
	const q = "SELECT id, name, unit FROM services ORDER BY name ASC"
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Unit); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new service and populates its ID.
func (r *ServiceRepo) Create(ctx context.Context, s *Service) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO services (name, unit) VALUES (?,?)", s.Name, s.Unit)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Update rewrites both fields of the service identified by s.ID.
func (r *ServiceRepo) Update(ctx context.Context, s *Service) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE services SET name=?, unit=? WHERE id=?", s.Name, s.Unit, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// Delete removes a service row.
func (r *ServiceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM services WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrServiceNotFound
	}
	return nil
}
