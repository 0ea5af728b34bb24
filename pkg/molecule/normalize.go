// Package molecule normalizes heterogeneous molecular inputs into the
// canonical coordinate format the packer consumes.
//
// Inputs may be coordinate files in any format Open Babel can read, or
// SMILES strings. The normalizer resolves the input format (honoring the
// "auto" sentinel), copies canonical-format files verbatim, and delegates
// everything else to a Converter. The result is always a Geometry: a
// scoped temporary xyz file owned by the caller.
package molecule

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/virtualzx/molpack/pkg/errors"
	"github.com/virtualzx/molpack/pkg/observability"
)

// Normalizer turns structure inputs into canonical-format geometries.
type Normalizer struct {
	converter Converter
	logger    *log.Logger
}

// NewNormalizer creates a normalizer. converter may be nil, in which case
// only canonical-format inputs can be normalized. A nil logger discards
// output.
func NewNormalizer(converter Converter, logger *log.Logger) *Normalizer {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Normalizer{converter: converter, logger: logger}
}

// Converter returns the conversion capability, or nil when absent.
func (n *Normalizer) Converter() Converter {
	return n.converter
}

// Normalize converts input (a file path or a SMILES string) into an owned
// canonical-format Geometry. format may be an explicit token or "auto".
// forceField is used when 3-D coordinates must be generated from a
// notation string.
//
// Error codes:
//   - UNREADABLE_INPUT: a specific file format was declared but the path
//     cannot be opened
//   - CONVERSION_UNAVAILABLE: conversion is required but no Converter is
//     configured
//   - CONVERSION_FAILED: the Converter rejected the input
func (n *Normalizer) Normalize(ctx context.Context, input, format, forceField string) (*Geometry, error) {
	if err := errors.ValidateStructureInput(input); err != nil {
		return nil, err
	}

	res, err := resolveFormat(input, format)
	if err != nil {
		return nil, err
	}
	n.logger.Debug("resolved structure input", "format", res.format, "notation", res.notation)

	// Canonical-format files are copied byte for byte.
	if res.format == CanonicalFormat {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnreadableInput, err, "open %s", input)
		}
		return NewGeometry(data)
	}

	// A declared file format must point at an openable file, whether or
	// not conversion is possible.
	if !res.notation {
		f, err := os.Open(input)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnreadableInput, err, "open %s", input)
		}
		f.Close()
	}

	if n.converter == nil {
		return nil, errors.New(errors.ErrCodeConversionUnavailable,
			"converting %q input requires Open Babel; supply %s input instead",
			res.format, CanonicalFormat)
	}

	start := time.Now()
	observability.Convert().OnConvertStart(ctx, res.format)

	var data []byte
	if res.notation {
		data, err = n.converter.Embed3D(ctx, input, forceField)
	} else {
		data, err = n.converter.ConvertFile(ctx, input, res.format)
	}
	observability.Convert().OnConvertComplete(ctx, res.format, time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConversionFailed, err, "convert %q input", res.format)
	}

	n.logger.Debug("converted structure input",
		"format", res.format,
		"bytes", len(data),
		"duration", time.Since(start).Round(time.Millisecond))
	return NewGeometry(data)
}
