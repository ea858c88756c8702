package plans

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) List(ctx context.Context, userID, difficulty string) ([]Plan, error) {
	var out []Plan

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, user_id, name, location, difficulty, notes, created_at
			FROM plans
			WHERE user_id = $1 AND ($2 = '' OR difficulty = $2)
			ORDER BY created_at ASC
		`, userID, difficulty)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Plan, 0, 8)
		for rows.Next() {
			var p Plan
			if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Location, &p.Difficulty, &p.Notes, &p.CreatedAt); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Create(ctx context.Context, p Plan) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO plans (id, user_id, name, location, difficulty, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, p.ID, p.UserID, p.Name, p.Location, p.Difficulty, p.Notes, p.CreatedAt)
		return err
	})
}

func (s *PostgresStore) Update(ctx context.Context, p Plan) (bool, error) {
	var found bool
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE plans
			SET name = $3, location = $4, difficulty = $5, notes = $6
			WHERE id = $1 AND user_id = $2
		`, p.ID, p.UserID, p.Name, p.Location, p.Difficulty, p.Notes)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		found = n > 0
		return err
	})
	return found, err
}

func (s *PostgresStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	var found bool
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			DELETE FROM plans WHERE id = $1 AND user_id = $2
		`, id, userID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		found = n > 0
		return err
	})
	return found, err
}

func (s *PostgresStore) Clear(ctx context.Context, userID string) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE user_id = $1`, userID)
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
