package file

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
)

// Slot stores the cart blob in <dir>/<key>.json. Writes go through a temp
// file in the same directory and a rename, so readers see either the old
// or the new snapshot.
type Slot struct {
	path string
}

func NewSlot(dir, key string) (*Slot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", dir)
	}
	return &Slot{path: filepath.Join(dir, key+".json")}, nil
}

func (s *Slot) Path() string {
	return s.path
}

func (s *Slot) Get(ctx context.Context) (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "read cart file")
	}
	return string(data), true, nil
}

func (s *Slot) Set(ctx context.Context, blob string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "replace cart file")
	}
	return nil
}
