package catalog

import "context"

// Store is the persistence backend behind the catalog. Implementations only
// move rows; validation, id assignment and asset bookkeeping live in Catalog.
//
// Get returns (Item{}, false, nil) for an unknown id. Replace and Delete
// report an unknown id the same way through their bool result.
type Store interface {
	Insert(ctx context.Context, it Item) error
	Get(ctx context.Context, id string) (Item, bool, error)

	// ListNewestFirst returns every item ordered by CreatedAt descending.
	ListNewestFirst(ctx context.Context) ([]Item, error)

	// SearchNewestFirst returns the items whose name or description contains
	// query as a case-insensitive substring, ordered by CreatedAt descending.
	SearchNewestFirst(ctx context.Context, query string) ([]Item, error)

	Replace(ctx context.Context, it Item) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)

	Ping(ctx context.Context) error
}

var (
	_ Store = (*MemStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
