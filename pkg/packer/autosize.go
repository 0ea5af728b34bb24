package packer

import (
	"context"

	"github.com/virtualzx/molpack/pkg/errors"
	"github.com/virtualzx/molpack/pkg/observability"
)

// Autosize search defaults.
const (
	DefaultAutosizeMax  = 20.0
	DefaultAutosizeStep = 0.2
)

// AutosizeOptions parameterize the linear region-size search.
type AutosizeOptions struct {
	// MinSize is the first size probed.
	MinSize float64

	// MaxSize is the exclusive upper bound. Zero means DefaultAutosizeMax.
	MaxSize float64

	// Step is the size increment between probes. Zero means
	// DefaultAutosizeStep; negative is rejected.
	Step float64
}

func (o *AutosizeOptions) setDefaults() {
	if o.MaxSize == 0 {
		o.MaxSize = DefaultAutosizeMax
	}
	if o.Step == 0 {
		o.Step = DefaultAutosizeStep
	}
}

// Autosize searches for the smallest region size that packs successfully,
// probing sizes min, min+step, min+2*step, ... while they stay below max.
// Each probe overwrites the session's dimensions option and executes a
// full run, so after a successful return the session holds the winning
// size and its result.
//
// A soft failure moves the search to the next size. A hard failure or any
// other error aborts immediately. When every probe soft-fails the search
// returns SIZE_NOT_FOUND with the session's dimensions left at the last
// probed size.
func (r *Runner) Autosize(ctx context.Context, s *Session, opts AutosizeOptions) (float64, error) {
	opts.setDefaults()
	if opts.Step < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "autosize step must be positive, got %g", opts.Step)
	}

	// Sizes are derived from the index to avoid accumulating float error
	// over many probes.
	for i := 0; ; i++ {
		size := opts.MinSize + float64(i)*opts.Step
		if size >= opts.MaxSize {
			break
		}

		s.SetOption(OptDimensions, size)
		r.Logger.Debug("autosize probe", "size", size)

		result, err := r.Run(ctx, s)
		if result != nil {
			observability.Run().OnAutosizeProbe(ctx, size, string(result.Classification))
		}
		if err == nil {
			r.Logger.Info("autosize converged", "size", size)
			return size, nil
		}
		if errors.Is(err, errors.ErrCodeSoftFailure) {
			continue
		}
		return 0, err
	}

	return 0, errors.New(errors.ErrCodeSizeNotFound,
		"no region size below %g packed successfully", opts.MaxSize)
}
