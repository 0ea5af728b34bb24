package packer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/virtualzx/molpack/pkg/errors"
	"github.com/virtualzx/molpack/pkg/molecule"
)

// RegionSphere is the only supported placement-region shape: a sphere
// centered at the origin with radius taken from the dimensions option.
const RegionSphere = "sphere"

// Serialize renders the session plus its options into the packmol input
// grammar. Rendering is deterministic and order-preserving: pass-through
// options appear in insertion order, structure blocks in entry order.
// The produced text is also snapshotted on the session (see LastInput).
//
// The region shape is validated here, not when structures are added, so
// the shape can be changed after entries exist. Any unsupported non-empty
// shape fails with UNSUPPORTED_REGION; an empty shape emits no region
// clause at all.
func (s *Session) Serialize() (string, error) {
	text, _, err := s.serialize()
	return text, err
}

// serialize is the internal form that also reports the seed used, so the
// run executor can record it.
func (s *Session) serialize() (string, int64, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "filetype %s\n", molecule.CanonicalFormat)

	seed := s.resolveSeed()
	fmt.Fprintf(&b, "seed %d\n", seed)

	for _, name := range s.options.Names() {
		if internalOptions[name] {
			continue
		}
		value, _ := s.options.Get(name)
		line, err := renderOption("", name, value)
		if err != nil {
			return "", 0, err
		}
		if line != "" {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	region, err := s.regionClause()
	if err != nil {
		return "", 0, err
	}

	for _, e := range s.entries {
		fmt.Fprintf(&b, "structure %s\n", e.geometry.Path())
		fmt.Fprintf(&b, "  number %d\n", e.count)
		if region != "" {
			b.WriteString(region)
			b.WriteByte('\n')
		}
		for _, name := range e.options.Names() {
			value, _ := e.options.Get(name)
			line, err := renderOption("  ", name, value)
			if err != nil {
				return "", 0, err
			}
			if line != "" {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
		b.WriteString("end structure\n")
	}

	text := b.String()
	s.lastInput = text
	return text, seed, nil
}

// resolveSeed picks the run seed: an explicit, non-zero seed option wins;
// otherwise one is derived from the seed source. Both paths go through
// the same bounding reduction.
func (s *Session) resolveSeed() int64 {
	if v, ok := s.options.intValue(OptSeed); ok && v != 0 {
		return boundSeed(v)
	}
	return boundSeed(s.seeds.Seed())
}

// regionClause renders the placement-region line shared by all structure
// blocks, or "" when no region constraint is configured.
func (s *Session) regionClause() (string, error) {
	shape := strings.TrimSpace(s.options.stringValue(OptRegionType))
	if shape == "" {
		// Deliberate permissive case: no shape means no constraint.
		return "", nil
	}
	if shape != RegionSphere {
		return "", errors.New(errors.ErrCodeUnsupportedRegion,
			"unsupported region shape %q: only %q is supported", shape, RegionSphere)
	}

	size, ok := s.options.floatValue(OptDimensions)
	if !ok {
		size = DefaultDimensions
	}
	return fmt.Sprintf("  inside sphere 0.0 0.0 0.0 %s", formatNumber(size)), nil
}

// renderOption renders one option as a directive line, without the
// trailing newline. Boolean options follow the grammar's bare-flag
// convention: true renders the name alone, false renders nothing.
// Values outside the closed variant are rejected.
func renderOption(indent, name string, value any) (string, error) {
	if err := errors.ValidateOptionName(name); err != nil {
		return "", err
	}

	switch v := value.(type) {
	case string:
		if err := errors.ValidateOptionString(v); err != nil {
			return "", err
		}
		return indent + name + " " + v, nil
	case bool:
		if !v {
			return "", nil
		}
		return indent + name, nil
	case int:
		return indent + name + " " + strconv.Itoa(v), nil
	case int64:
		return indent + name + " " + strconv.FormatInt(v, 10), nil
	case float64:
		return indent + name + " " + formatNumber(v), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidOption,
			"option %q has unsupported type %T", name, value)
	}
}

// formatNumber renders a float with minimal digits ("10", "2.5").
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
