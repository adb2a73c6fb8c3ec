package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the default embedded backend: one file, no server to run.
// created_at is stored as unix nanoseconds so ORDER BY sorts chronologically.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at path and applies the
// schema. Use ":memory:" for a throwaway store.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// An in-memory database exists per connection, so the pool must not
	// grow past one.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			purchase_link   TEXT NOT NULL,
			description     TEXT NOT NULL,
			proof_of_origin TEXT NOT NULL,
			image_path      TEXT NOT NULL,
			created_at      INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS items_created_at_idx ON items (created_at DESC);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *SQLiteStore) Insert(ctx context.Context, it Item) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO items (id, name, purchase_link, description, proof_of_origin, image_path, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, it.ID, it.Name, it.PurchaseLink, it.Description, it.ProofOfOrigin, it.ImagePath, it.CreatedAt.UnixNano())
		return err
	})
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Item, bool, error) {
	var (
		it    Item
		nanos int64
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, name, purchase_link, description, proof_of_origin, image_path, created_at
			FROM items
			WHERE id = ?
		`, id).Scan(&it.ID, &it.Name, &it.PurchaseLink, &it.Description, &it.ProofOfOrigin, &it.ImagePath, &nanos)
	})

	if err == sql.ErrNoRows {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, err
	}

	it.CreatedAt = time.Unix(0, nanos).UTC()
	return it, true, nil
}

func (s *SQLiteStore) ListNewestFirst(ctx context.Context) ([]Item, error) {
	return s.queryItems(ctx, `
		SELECT id, name, purchase_link, description, proof_of_origin, image_path, created_at
		FROM items
		ORDER BY created_at DESC
	`)
}

func (s *SQLiteStore) SearchNewestFirst(ctx context.Context, query string) ([]Item, error) {
	// instr needs no LIKE-escaping and is exactly substring containment.
	return s.queryItems(ctx, `
		SELECT id, name, purchase_link, description, proof_of_origin, image_path, created_at
		FROM items
		WHERE instr(lower(name), lower(?1)) > 0
		   OR instr(lower(description), lower(?1)) > 0
		ORDER BY created_at DESC
	`, query)
}

func (s *SQLiteStore) Replace(ctx context.Context, it Item) (bool, error) {
	var n int64

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE items
			SET name = ?, purchase_link = ?, description = ?, proof_of_origin = ?, image_path = ?
			WHERE id = ?
		`, it.Name, it.PurchaseLink, it.Description, it.ProofOfOrigin, it.ImagePath, it.ID)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})

	return n > 0, err
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	var n int64

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})

	return n > 0, err
}

func (s *SQLiteStore) queryItems(ctx context.Context, q string, args ...any) ([]Item, error) {
	var out []Item

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Item, 0, 16)
		for rows.Next() {
			var (
				it    Item
				nanos int64
			)
			if err := rows.Scan(&it.ID, &it.Name, &it.PurchaseLink, &it.Description, &it.ProofOfOrigin, &it.ImagePath, &nanos); err != nil {
				return err
			}
			it.CreatedAt = time.Unix(0, nanos).UTC()
			out = append(out, it)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}
