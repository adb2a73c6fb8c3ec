package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"MapleMade/internal/catalog"
)

func newCatalog() *catalog.Catalog {
	return &catalog.Catalog{Store: catalog.NewMemStore()}
}

func validFields() catalog.CreateFields {
	return catalog.CreateFields{
		Name:          "Maple Syrup",
		PurchaseLink:  "https://x.ca",
		Description:   "Pure Canadian syrup",
		ProofOfOrigin: "Made in Quebec",
		ImagePath:     "https://img/1.png",
	}
}

func mustCreate(t *testing.T, c *catalog.Catalog, f catalog.CreateFields) catalog.Item {
	t.Helper()

	it, err := c.Create(context.Background(), f)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return it
}

func strptr(s string) *string { return &s }

func TestCreateAssignsIDAndCreatedAt(t *testing.T) {
	c := newCatalog()

	seen := map[string]bool{}
	var prev time.Time

	for i := 0; i < 5; i++ {
		it := mustCreate(t, c, validFields())

		if it.ID == "" {
			t.Fatalf("empty id")
		}
		if seen[it.ID] {
			t.Fatalf("duplicate id %q", it.ID)
		}
		seen[it.ID] = true

		if it.CreatedAt.Before(prev) {
			t.Fatalf("createdAt went backwards: %v < %v", it.CreatedAt, prev)
		}
		prev = it.CreatedAt
	}
}

func TestCreateRejectsBlankFields(t *testing.T) {
	c := newCatalog()

	cases := map[string]func(*catalog.CreateFields){
		"name":          func(f *catalog.CreateFields) { f.Name = "  " },
		"purchaseLink":  func(f *catalog.CreateFields) { f.PurchaseLink = "" },
		"description":   func(f *catalog.CreateFields) { f.Description = "" },
		"proofOfOrigin": func(f *catalog.CreateFields) { f.ProofOfOrigin = "\t" },
		"imagePath":     func(f *catalog.CreateFields) { f.ImagePath = "" },
	}

	for field, blank := range cases {
		f := validFields()
		blank(&f)

		if _, err := c.Create(context.Background(), f); !errors.Is(err, catalog.ErrInvalid) {
			t.Errorf("blank %s: err=%v, want ErrInvalid", field, err)
		}
	}

	items, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("rejected creates persisted %d items", len(items))
	}
}

func TestGetReturnsCreatedItem(t *testing.T) {
	c := newCatalog()
	created := mustCreate(t, c, validFields())

	got, err := c.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != created {
		t.Fatalf("got %+v, want %+v", got, created)
	}
}

func TestGetUnknownID(t *testing.T) {
	c := newCatalog()

	for _, id := range []string{"itm_missing", "not-even-an-id", ""} {
		if _, err := c.Get(context.Background(), id); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("Get(%q): err=%v, want ErrNotFound", id, err)
		}
	}
}

func TestListNewestFirst(t *testing.T) {
	c := newCatalog()

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		f := validFields()
		f.Name = name
		ids = append(ids, mustCreate(t, c, f).ID)
		time.Sleep(2 * time.Millisecond) // distinct createdAt
	}

	items, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len=%d, want 3", len(items))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if items[i].ID != want {
			t.Fatalf("items[%d].ID=%s, want %s", i, items[i].ID, want)
		}
	}
}

func TestSearch(t *testing.T) {
	c := newCatalog()

	syrup := mustCreate(t, c, validFields())

	f := validFields()
	f.Name = "Cedar Canoe"
	f.Description = "Hand built in Ontario"
	mustCreate(t, c, f)

	for _, q := range []string{"maple", "SYRUP", "syr", "canadian"} {
		items, err := c.Search(context.Background(), q)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(items) != 1 || items[0].ID != syrup.ID {
			t.Fatalf("Search(%q)=%d items, want just the syrup", q, len(items))
		}
	}

	items, err := c.Search(context.Background(), "syrups")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("Search(syrups)=%d items, want none", len(items))
	}
}

func TestSearchBlankQuery(t *testing.T) {
	c := newCatalog()

	for _, q := range []string{"", "   "} {
		if _, err := c.Search(context.Background(), q); !errors.Is(err, catalog.ErrInvalid) {
			t.Errorf("Search(%q): err=%v, want ErrInvalid", q, err)
		}
	}
}

func TestUpdatePartial(t *testing.T) {
	c := newCatalog()
	created := mustCreate(t, c, validFields())

	got, err := c.Update(context.Background(), created.ID, catalog.UpdateFields{
		Name: strptr("Dark Maple Syrup"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := created
	want.Name = "Dark Maple Syrup"
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if fresh, _ := c.Get(context.Background(), created.ID); fresh != want {
		t.Fatalf("persisted %+v, want %+v", fresh, want)
	}
}

func TestUpdateRejectsBlankField(t *testing.T) {
	c := newCatalog()
	created := mustCreate(t, c, validFields())

	_, err := c.Update(context.Background(), created.ID, catalog.UpdateFields{Name: strptr("  ")})
	if !errors.Is(err, catalog.ErrInvalid) {
		t.Fatalf("err=%v, want ErrInvalid", err)
	}

	if got, _ := c.Get(context.Background(), created.ID); got != created {
		t.Fatalf("rejected update changed the item: %+v", got)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	c := newCatalog()

	_, err := c.Update(context.Background(), "itm_missing", catalog.UpdateFields{Name: strptr("x")})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestDeleteThenGet(t *testing.T) {
	c := newCatalog()
	created := mustCreate(t, c, validFields())

	if err := c.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(context.Background(), created.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("Get after delete: err=%v, want ErrNotFound", err)
	}
	if err := c.Delete(context.Background(), created.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("second Delete: err=%v, want ErrNotFound", err)
	}
}

// captureReleaser records release events for assertions.
type captureReleaser struct {
	ch chan string
}

func (r *captureReleaser) Release(_ context.Context, path string) error {
	r.ch <- path
	return nil
}

func (r *captureReleaser) wait(t *testing.T) string {
	t.Helper()

	select {
	case p := <-r.ch:
		return p
	case <-time.After(2 * time.Second):
		t.Fatalf("no release event")
		return ""
	}
}

func TestDeleteReleasesImage(t *testing.T) {
	rel := &captureReleaser{ch: make(chan string, 1)}
	c := &catalog.Catalog{Store: catalog.NewMemStore(), Assets: rel}

	created := mustCreate(t, c, validFields())
	if err := c.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if got := rel.wait(t); got != created.ImagePath {
		t.Fatalf("released %q, want %q", got, created.ImagePath)
	}
}

func TestUpdateReleasesReplacedImage(t *testing.T) {
	rel := &captureReleaser{ch: make(chan string, 1)}
	c := &catalog.Catalog{Store: catalog.NewMemStore(), Assets: rel}

	created := mustCreate(t, c, validFields())

	if _, err := c.Update(context.Background(), created.ID, catalog.UpdateFields{
		ImagePath: strptr("https://img/2.png"),
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := rel.wait(t); got != created.ImagePath {
		t.Fatalf("released %q, want %q", got, created.ImagePath)
	}

	// An update that keeps the image must not release anything.
	if _, err := c.Update(context.Background(), created.ID, catalog.UpdateFields{
		Name: strptr("Renamed"),
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	select {
	case p := <-rel.ch:
		t.Fatalf("unexpected release of %q", p)
	case <-time.After(100 * time.Millisecond):
	}
}
