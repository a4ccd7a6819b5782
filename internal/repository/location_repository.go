// Package repository contains data access logic separated from HTTP handlers.
// Each entity gets its own repository struct over the shared *sql.DB pool,
// constructed once at startup and injected into the handlers.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Location represents a serviced site.  Records may reference a location by
// id but also carry a denormalized copy of its name and area.
type Location struct {
	ID   uint64  `json:"id"`
	City string  `json:"city"`
	Name string  `json:"name"`
	Area float64 `json:"area"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// ErrLocationNotFound is returned when a location cannot be found in the DB.
var ErrLocationNotFound = errors.New("location not found")

type LocationRepo struct{ DB *sql.DB }

func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{DB: db} }

// List returns all locations ordered by name ascending.
func (r *LocationRepo) List(ctx context.Context) ([]Location, error) {
	const q = "SELECT id, city, name, area, lat, lng FROM locations ORDER BY name ASC"
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.City, &l.Name, &l.Area, &l.Lat, &l.Lng); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new location and populates its ID.
func (r *LocationRepo) Create(ctx context.Context, l *Location) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO locations (city, name, area, lat, lng) VALUES (?,?,?,?,?)",
		l.City, l.Name, l.Area, l.Lat, l.Lng)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// Update rewrites every field of the location identified by l.ID.
func (r *LocationRepo) Update(ctx context.Context, l *Location) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE locations SET city=?, name=?, area=?, lat=?, lng=? WHERE id=?",
		l.City, l.Name, l.Area, l.Lat, l.Lng, l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// Delete removes a location row.
func (r *LocationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM locations WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}
