package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// User mirrors the 'users' table.  PasswordHash is excluded from JSON so a
// credential can never leak through a serialized entity; handlers that need
// a slimmer shape define their own response structs on top.
type User struct {
	ID           uint64          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Role         string          `json:"role"` // ADMIN | OPERATOR
	Assignments  json.RawMessage `json:"assignments,omitempty"`
	CreatedAt    time.Time       `json:"-"`
	UpdatedAt    time.Time       `json:"-"`
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var (
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// List returns all users ordered by name ascending.  Password hashes are
// intentionally not selected.
func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	const q = `SELECT id, name, email, role, assignments, created_at, updated_at
	           FROM users ORDER BY name ASC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		var assignments sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &assignments, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if assignments.Valid {
			u.Assignments = json.RawMessage(assignments.String)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a user by id.  Returns ErrUserNotFound when no row matches.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	const q = `SELECT id, name, email, password_hash, role, assignments, created_at, updated_at
	           FROM users WHERE id=? LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, q, id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `SELECT id, name, email, password_hash, role, assignments, created_at, updated_at
	           FROM users WHERE email=? LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, q, email))
}

func (r *UserRepo) scanOne(row *sql.Row) (User, error) {
	var u User
	var assignments sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &assignments, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	if assignments.Valid {
		u.Assignments = json.RawMessage(assignments.String)
	}
	return u, nil
}

// Create inserts the user and populates its ID.  The caller supplies an
// already hashed password.  A duplicate email surfaces as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, assignments) VALUES (?,?,?,?,?)",
		u.Name, u.Email, u.PasswordHash, u.Role, nullJSON(u.Assignments))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// Update rewrites the mutable user fields.  When PasswordHash is empty the
// stored credential is left untouched, so an admin can edit a user without
// knowing or resetting the password.
func (r *UserRepo) Update(ctx context.Context, u *User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	var (
		res sql.Result
		err error
	)
	if u.PasswordHash != "" {
		res, err = r.DB.ExecContext(ctx,
			`UPDATE users SET name=?, email=?, password_hash=?, role=?, assignments=?, updated_at=CURRENT_TIMESTAMP
			 WHERE id=?`,
			u.Name, u.Email, u.PasswordHash, u.Role, nullJSON(u.Assignments), u.ID)
	} else {
		res, err = r.DB.ExecContext(ctx,
			`UPDATE users SET name=?, email=?, role=?, assignments=?, updated_at=CURRENT_TIMESTAMP
			 WHERE id=?`,
			u.Name, u.Email, u.Role, nullJSON(u.Assignments), u.ID)
	}
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes a user row.  Returns ErrUserNotFound when nothing matched.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// nullJSON converts an optional raw JSON document into a driver value,
// storing NULL when the document is absent.
func nullJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
