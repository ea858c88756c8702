package catalog

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"TrailStore/internal/shop"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	txTimeout    = 5 * time.Second
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

func (s *PostgresStore) List(ctx context.Context) ([]shop.Product, error) {
	var out []shop.Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, title, price, qty, img, color
			FROM products
			ORDER BY pos ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]shop.Product, 0, 16)
		for rows.Next() {
			var p shop.Product
			if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Qty, &p.Img, &p.Color); err != nil {
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

func (s *PostgresStore) Get(ctx context.Context, id string) (shop.Product, bool, error) {
	var p shop.Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, title, price, qty, img, color
			FROM products
			WHERE id = $1
		`, id).Scan(&p.ID, &p.Title, &p.Price, &p.Qty, &p.Img, &p.Color)
	})

	if err == sql.ErrNoRows {
		return shop.Product{}, false, nil
	}
	if err != nil {
		return shop.Product{}, false, err
	}
	return p, true, nil
}

// Upsert matches on title case-insensitively, same rule as shop.Upsert: a
// match updates price and qty, replaces img only when non-empty, and keeps
// id, title and color; otherwise a new row is appended.
func (s *PostgresStore) Upsert(ctx context.Context, in shop.UpsertInput) (shop.Product, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return shop.Product{}, shop.ErrTitleRequired
	}

	price := shop.ParsePrice(in.Price)
	qty := shop.ParseQty(in.Qty)
	img := strings.TrimSpace(in.Img)

	var p shop.Product
	err := withTimeout(ctx, txTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		err = tx.QueryRowContext(ctx, `
			UPDATE products
			SET price = $2,
			    qty = $3,
			    img = CASE WHEN $4 <> '' THEN $4 ELSE img END
			WHERE lower(title) = lower($1)
			RETURNING id, title, price, qty, img, color
		`, title, price, qty, img).Scan(&p.ID, &p.Title, &p.Price, &p.Qty, &p.Img, &p.Color)

		if err == sql.ErrNoRows {
			p = shop.Product{
				ID:    newProductID(),
				Title: title,
				Price: price,
				Qty:   qty,
				Img:   img,
				Color: shop.ColorFor(title),
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO products (id, title, price, qty, img, color)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, p.ID, p.Title, p.Price, p.Qty, p.Img, p.Color); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		return tx.Commit()
	})

	if err != nil {
		return shop.Product{}, err
	}
	return p, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	var found bool
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		found = n > 0
		return err
	})
	return found, err
}

func (s *PostgresStore) Replace(ctx context.Context, products []shop.Product) error {
	return withTimeout(ctx, txTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO products (id, title, price, qty, img, color)
			VALUES ($1, $2, $3, $4, $5, $6)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range products {
			if _, err := stmt.ExecContext(ctx, p.ID, p.Title, p.Price, p.Qty, p.Img, p.Color); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

// ApplyCheckout runs every decrement as a conditional update inside one
// transaction. A condition that matches no row means the line outran current
// stock; the whole transaction rolls back and the shortfall is reported, so
// concurrent checkouts can never jointly oversell a product.
func (s *PostgresStore) ApplyCheckout(ctx context.Context, lines []shop.Line) error {
	if len(lines) == 0 {
		return shop.ErrEmptyCart
	}

	return withTimeout(ctx, txTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `
			UPDATE products
			SET qty = qty - $2
			WHERE id = $1 AND qty >= $2
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, l := range lines {
			res, err := stmt.ExecContext(ctx, l.ProductID, l.Qty)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return s.stockError(ctx, tx, l)
			}
		}

		return tx.Commit()
	})
}

func (s *PostgresStore) stockError(ctx context.Context, tx *sql.Tx, l shop.Line) error {
	se := &shop.StockError{
		ProductID: l.ProductID,
		Title:     l.Title,
		Requested: l.Qty,
	}

	var title string
	var qty int
	err := tx.QueryRowContext(ctx, `
		SELECT title, qty FROM products WHERE id = $1
	`, l.ProductID).Scan(&title, &qty)
	if err == nil {
		se.Title = title
		se.Available = qty
	}
	// sql.ErrNoRows: the product is gone, available stays 0.

	return se
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
