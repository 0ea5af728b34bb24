package molecule

import (
	"os"

	"github.com/virtualzx/molpack/pkg/errors"
)

// Geometry is a normalized coordinate resource backed by a scoped
// temporary file. It is exclusively owned by whoever holds the pointer;
// the owner must call Release when the geometry is discarded.
type Geometry struct {
	path     string
	released bool
}

// NewGeometry writes data to a fresh temporary file and returns the
// owning handle.
func NewGeometry(data []byte) (*Geometry, error) {
	f, err := os.CreateTemp("", "molpack-*."+CanonicalFormat)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create geometry file")
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write geometry file")
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "close geometry file")
	}
	return &Geometry{path: f.Name()}, nil
}

// Path returns the location of the geometry file.
// The path is invalid after Release.
func (g *Geometry) Path() string {
	return g.path
}

// Bytes reads the geometry file content.
func (g *Geometry) Bytes() ([]byte, error) {
	if g.released {
		return nil, errors.New(errors.ErrCodeInternal, "geometry already released")
	}
	return os.ReadFile(g.path)
}

// Release removes the backing file. Release is idempotent; releasing an
// already-released geometry is a no-op.
func (g *Geometry) Release() error {
	if g.released {
		return nil
	}
	g.released = true
	err := os.Remove(g.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
