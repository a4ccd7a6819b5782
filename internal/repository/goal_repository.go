package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Goal is a monthly target for a contract group.  Months are stored in
// "YYYY-MM" form so the default string ordering matches chronological order.
type Goal struct {
	ID            uint64  `json:"id"`
	ContractGroup string  `json:"contractGroup"`
	Month         string  `json:"month"`
	TargetArea    float64 `json:"targetArea"`
}

var ErrGoalNotFound = errors.New("goal not found")

type GoalRepo struct{ DB *sql.DB }

func NewGoalRepo(db *sql.DB) *GoalRepo { return &GoalRepo{DB: db} }

// List returns all goals, most recent month first.
func (r *GoalRepo) List(ctx context.Context) ([]Goal, error) {
	const q = "SELECT id, contract_group, month, target_area FROM goals ORDER BY month DESC"
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.ContractGroup, &g.Month, &g.TargetArea); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new goal and populates its ID.
func (r *GoalRepo) Create(ctx context.Context, g *Goal) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO goals (contract_group, month, target_area) VALUES (?,?,?)",
		g.ContractGroup, g.Month, g.TargetArea)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// Update rewrites every field of the goal identified by g.ID.
func (r *GoalRepo) Update(ctx context.Context, g *Goal) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE goals SET contract_group=?, month=?, target_area=? WHERE id=?",
		g.ContractGroup, g.Month, g.TargetArea, g.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// Delete removes a goal row.
func (r *GoalRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM goals WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGoalNotFound
	}
	return nil
}
