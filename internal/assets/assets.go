// Package assets talks to whatever holds item images. The catalog only ever
// asks it to release an image that is no longer referenced; serving and
// uploading images is someone else's problem.
package assets

import "context"

// Releaser frees the backing asset for an image path. Implementations treat
// paths they do not recognize as already released and return nil.
type Releaser interface {
	Release(ctx context.Context, path string) error
}

// Discard ignores release requests. Used when no asset backend is configured.
type Discard struct{}

func (Discard) Release(context.Context, string) error { return nil }

var (
	_ Releaser = Discard{}
	_ Releaser = (*DiskStore)(nil)
	_ Releaser = (*S3Store)(nil)
)
