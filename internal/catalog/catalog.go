package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"MapleMade/internal/assets"
)

// releaseTimeout bounds the advisory asset release, which outlives the
// request that triggered it.
const releaseTimeout = 5 * time.Second

// Catalog owns item validation and lifecycle on top of a persistence backend.
// When an item's image is replaced or the item is deleted, the old image is
// reported to the asset collaborator; that call is best-effort and never
// fails the catalog operation.
type Catalog struct {
	Store  Store
	Assets assets.Releaser
	Log    *zap.Logger
}

func (c *Catalog) Create(ctx context.Context, f CreateFields) (Item, error) {
	if err := f.validate(); err != nil {
		return Item{}, err
	}

	it := Item{
		ID:            "itm_" + uuid.NewString(),
		Name:          f.Name,
		PurchaseLink:  f.PurchaseLink,
		Description:   f.Description,
		ProofOfOrigin: f.ProofOfOrigin,
		ImagePath:     f.ImagePath,
		CreatedAt:     time.Now().UTC(),
	}

	if err := c.Store.Insert(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (Item, error) {
	it, ok, err := c.Store.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (c *Catalog) List(ctx context.Context) ([]Item, error) {
	return c.Store.ListNewestFirst(ctx)
}

func (c *Catalog) Search(ctx context.Context, query string) ([]Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalid)
	}
	return c.Store.SearchNewestFirst(ctx, query)
}

func (c *Catalog) Update(ctx context.Context, id string, f UpdateFields) (Item, error) {
	if err := f.validate(); err != nil {
		return Item{}, err
	}

	old, err := c.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}

	next := f.apply(old)
	ok, err := c.Store.Replace(ctx, next)
	if err != nil {
		return Item{}, err
	}
	if !ok {
		return Item{}, ErrNotFound
	}

	if next.ImagePath != old.ImagePath {
		c.releaseAsset(old.ImagePath)
	}
	return next, nil
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	it, err := c.Get(ctx, id)
	if err != nil {
		return err
	}

	ok, err := c.Store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	c.releaseAsset(it.ImagePath)
	return nil
}

func (c *Catalog) Ping(ctx context.Context) error {
	return c.Store.Ping(ctx)
}

// releaseAsset tells the asset collaborator the image behind path is no
// longer referenced. Fire-and-forget: a failed release leaves an orphaned
// asset, never a failed request.
func (c *Catalog) releaseAsset(path string) {
	if c.Assets == nil || path == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()

		if err := c.Assets.Release(ctx, path); err != nil && c.Log != nil {
			c.Log.Warn("asset release failed", zap.String("path", path), zap.Error(err))
		}
	}()
}
