package catalog

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresStore persists items in Postgres. Open the *sql.DB with the pgx
// stdlib driver; the queries only need per-row atomicity.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema runs one statement at a time: pgx's extended protocol does
// not accept multi-statement strings.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS items (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			purchase_link   TEXT NOT NULL,
			description     TEXT NOT NULL,
			proof_of_origin TEXT NOT NULL,
			image_path      TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS items_created_at_idx ON items (created_at DESC)`,
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Insert(ctx context.Context, it Item) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO items (id, name, purchase_link, description, proof_of_origin, image_path, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, it.ID, it.Name, it.PurchaseLink, it.Description, it.ProofOfOrigin, it.ImagePath, it.CreatedAt)
		return err
	})
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Item, bool, error) {
	var it Item

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, name, purchase_link, description, proof_of_origin, image_path, created_at
			FROM items
			WHERE id = $1
		`, id).Scan(&it.ID, &it.Name, &it.PurchaseLink, &it.Description, &it.ProofOfOrigin, &it.ImagePath, &it.CreatedAt)
	})

	if err == sql.ErrNoRows {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, err
	}
	return it, true, nil
}

func (s *PostgresStore) ListNewestFirst(ctx context.Context) ([]Item, error) {
	return s.queryItems(ctx, `
		SELECT id, name, purchase_link, description, proof_of_origin, image_path, created_at
		FROM items
		ORDER BY created_at DESC
	`)
}

func (s *PostgresStore) SearchNewestFirst(ctx context.Context, query string) ([]Item, error) {
	return s.queryItems(ctx, `
		SELECT id, name, purchase_link, description, proof_of_origin, image_path, created_at
		FROM items
		WHERE position(lower($1) in lower(name)) > 0
		   OR position(lower($1) in lower(description)) > 0
		ORDER BY created_at DESC
	`, query)
}

func (s *PostgresStore) Replace(ctx context.Context, it Item) (bool, error) {
	var n int64

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE items
			SET name = $2, purchase_link = $3, description = $4, proof_of_origin = $5, image_path = $6
			WHERE id = $1
		`, it.ID, it.Name, it.PurchaseLink, it.Description, it.ProofOfOrigin, it.ImagePath)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})

	return n > 0, err
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	var n int64

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})

	return n > 0, err
}

func (s *PostgresStore) queryItems(ctx context.Context, q string, args ...any) ([]Item, error) {
	var out []Item

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Item, 0, 16)
		for rows.Next() {
			var it Item
			if err := rows.Scan(&it.ID, &it.Name, &it.PurchaseLink, &it.Description, &it.ProofOfOrigin, &it.ImagePath, &it.CreatedAt); err != nil {
				return err
			}
			out = append(out, it)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
