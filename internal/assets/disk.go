package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const uploadsPrefix = "/uploads/"

// DiskStore releases legacy images stored on local disk under an uploads
// directory and served by the /uploads static mount.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (s *DiskStore) Release(ctx context.Context, path string) error {
	name, found := strings.CutPrefix(path, uploadsPrefix)
	if !found {
		// Not a local upload, nothing to free here.
		return nil
	}

	// Uploads are flat files; anything that resolves outside the directory
	// is not something we ever wrote.
	name = filepath.Clean(name)
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("refusing path outside uploads dir: %q", path)
	}

	err := os.Remove(filepath.Join(s.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
