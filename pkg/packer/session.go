// Package packer implements the packing-session core: an ordered store of
// normalized structures with per-entry placement options, a deterministic
// serializer for the packmol input grammar, a subprocess run executor with
// output classification, and a linear autosize search over the
// placement-region size.
//
// # Usage
//
//	norm := molecule.NewNormalizer(openbabel.New(), logger)
//	s := packer.NewSession(norm, logger)
//	defer s.Close()
//
//	s.SetOption(packer.OptTolerance, 2.0)
//	if err := s.AddStructure(ctx, "water.xyz", packer.StructureSpec{Count: 500}); err != nil {
//	    return err
//	}
//
//	runner := packer.NewRunner(logger)
//	result, err := runner.Run(ctx, s)
package packer

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/virtualzx/molpack/pkg/errors"
	"github.com/virtualzx/molpack/pkg/molecule"
)

// StructureEntry pairs a normalized geometry with a repeat count and
// entry-scoped placement options. Entries are immutable once created;
// they are discarded (and their geometry released) by Clear or Close.
type StructureEntry struct {
	geometry *molecule.Geometry
	count    int
	options  *Options
}

// Count returns the number of copies packmol should place.
func (e *StructureEntry) Count() int {
	return e.count
}

// GeometryPath returns the path of the entry's normalized geometry file.
func (e *StructureEntry) GeometryPath() string {
	return e.geometry.Path()
}

// StructureSpec describes a structure being added to a session.
type StructureSpec struct {
	// Count is the repeat count. Zero defaults to 1; negative is
	// rejected.
	Count int

	// Format is the declared input format, or "auto" (also the zero
	// value) for detection.
	Format string

	// Options are entry-scoped placement options, forwarded verbatim
	// into the entry's structure block. May be nil.
	Options *Options
}

// Session owns an ordered sequence of structure entries, the session
// options, and the outcome of the most recent run. A session supports at
// most one in-flight run at a time; it is not safe for concurrent use.
type Session struct {
	normalizer *molecule.Normalizer
	logger     *log.Logger
	seeds      SeedSource

	entries    []*StructureEntry
	options    *Options
	lastInput  string
	lastResult *RunResult
}

// NewSession creates a session with the documented default options.
// normalizer may be nil, restricting inputs to canonical-format files.
// A nil logger discards output.
func NewSession(normalizer *molecule.Normalizer, logger *log.Logger) *Session {
	if normalizer == nil {
		normalizer = molecule.NewNormalizer(nil, nil)
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Session{
		normalizer: normalizer,
		logger:     logger,
		seeds:      timeSeedSource{},
		options:    defaultOptions(),
	}
}

// SetSeedSource replaces the seed source used when no explicit seed
// option is set. Intended for deterministic testing.
func (s *Session) SetSeedSource(src SeedSource) {
	if src != nil {
		s.seeds = src
	}
}

// SetOption sets a session option. Later calls for the same name
// overwrite the earlier value; there is no merging. Unknown names pass
// through into the serialized program verbatim.
func (s *Session) SetOption(name string, value any) {
	s.options.Set(name, value)
}

// Option returns a session option value.
func (s *Session) Option(name string) (any, bool) {
	return s.options.Get(name)
}

// AddStructure normalizes input using the session's current force-field
// option and appends a structure entry. The call is atomic: on error the
// session is unchanged. Placement options are not validated here; the
// serializer validates them when a run is prepared.
func (s *Session) AddStructure(ctx context.Context, input string, spec StructureSpec) error {
	count := spec.Count
	if count == 0 {
		count = 1
	}
	if count < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "repeat count must be positive, got %d", spec.Count)
	}

	geom, err := s.normalizer.Normalize(ctx, input, spec.Format, s.ForceField())
	if err != nil {
		return err
	}

	opts := spec.Options
	if opts == nil {
		opts = NewOptions()
	} else {
		opts = opts.Clone()
	}

	s.entries = append(s.entries, &StructureEntry{
		geometry: geom,
		count:    count,
		options:  opts,
	})
	s.logger.Debug("added structure", "geometry", geom.Path(), "count", count)
	return nil
}

// Len returns the number of structure entries.
func (s *Session) Len() int {
	return len(s.entries)
}

// Clear releases all structure entries and their geometry resources.
// Session options are untouched.
func (s *Session) Clear() {
	for _, e := range s.entries {
		if err := e.geometry.Release(); err != nil {
			s.logger.Warn("release geometry", "path", e.geometry.Path(), "error", err)
		}
	}
	s.entries = nil
}

// Close releases all resources owned by the session.
func (s *Session) Close() error {
	s.Clear()
	return nil
}

// LastInput returns the most recently serialized input program, or ""
// before the first serialization. Kept for inspection and debugging.
func (s *Session) LastInput() string {
	return s.lastInput
}

// LastResult returns the outcome of the most recent run, or nil before
// the first run. Every run overwrites it, win or lose.
func (s *Session) LastResult() *RunResult {
	return s.lastResult
}

// ForceField returns the session's force-field option.
func (s *Session) ForceField() string {
	if ff := s.options.stringValue(OptForceField); ff != "" {
		return ff
	}
	return DefaultForceField
}

// OutputPath returns the configured packmol output path.
func (s *Session) OutputPath() string {
	if out := s.options.stringValue(OptOutput); out != "" {
		return out
	}
	return DefaultOutput
}

// converter exposes the normalizer's conversion capability for energy
// evaluation after a successful run.
func (s *Session) converter() molecule.Converter {
	return s.normalizer.Converter()
}
