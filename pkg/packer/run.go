package packer

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/virtualzx/molpack/pkg/errors"
	"github.com/virtualzx/molpack/pkg/observability"
)

// CommandFunc executes argv with the given stdin and returns the combined
// stdout/stderr. The returned error reports a non-zero exit status.
// Replaceable for testing.
type CommandFunc func(ctx context.Context, argv []string, stdin io.Reader) ([]byte, error)

// defaultCommand runs the subprocess with os/exec.
func defaultCommand(ctx context.Context, argv []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = stdin
	return cmd.CombinedOutput()
}

// Runner executes packmol runs against a session.
//
// The Runner is stateless: it does not store results (those live on the
// session), so one Runner can serve many sessions sequentially.
type Runner struct {
	// Command executes the subprocess. Nil means os/exec.
	Command CommandFunc

	// Logger receives structured run logging. Nil means log.Default().
	Logger *log.Logger
}

// NewRunner creates a runner with the default subprocess executor.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

func (r *Runner) command() CommandFunc {
	if r.Command != nil {
		return r.Command
	}
	return defaultCommand
}

// Run serializes the session, feeds the program to the packmol
// subprocess on stdin, captures its combined output, and classifies the
// outcome.
//
// The RunResult is stored as the session's last result and returned in
// every case. Hard failures return a PACK_HARD_FAILURE error, soft
// failures a PACK_SOFT_FAILURE error, so callers can distinguish the
// retryable case; the result accompanies both. On success, if a
// conversion capability is available, the packed geometry's single-point
// energy is attached; an energy evaluation failure is logged and leaves
// the success classification intact.
func (r *Runner) Run(ctx context.Context, s *Session) (*RunResult, error) {
	input, seed, err := s.serialize()
	if err != nil {
		return nil, err
	}

	executable := s.options.stringValue(OptExecutable)
	if executable == "" {
		executable = DefaultExecutable
	}
	argv := strings.Fields(executable)
	if len(argv) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidOption, "executable option is blank")
	}

	runID := uuid.NewString()
	observability.Run().OnRunStart(ctx, runID, argv[0])
	r.Logger.Debug("starting packmol run",
		"run_id", runID,
		"command", executable,
		"structures", s.Len(),
		"seed", seed)

	start := time.Now()
	out, cmdErr := r.command()(ctx, argv, strings.NewReader(input))
	duration := time.Since(start)

	class, reason := classify(string(out), cmdErr)
	result := &RunResult{
		ID:             runID,
		OutputPath:     s.OutputPath(),
		Output:         string(out),
		Classification: class,
		Seed:           seed,
		Duration:       duration,
	}
	s.lastResult = result

	var runErr error
	switch class {
	case ClassHardFailure:
		if cmdErr != nil {
			runErr = errors.Wrap(errors.ErrCodeHardFailure, cmdErr, "%s", reason)
		} else {
			runErr = errors.New(errors.ErrCodeHardFailure, "%s", reason)
		}
	case ClassSoftFailure:
		runErr = errors.New(errors.ErrCodeSoftFailure, "%s", reason)
	case ClassSuccess:
		r.attachEnergy(ctx, s, result)
	}

	observability.Run().OnRunComplete(ctx, runID, string(class), duration, runErr)
	if runErr != nil {
		r.Logger.Debug("packmol run failed",
			"run_id", runID,
			"classification", class,
			"duration", duration.Round(time.Millisecond))
		return result, runErr
	}

	r.Logger.Info("packed structures",
		"run_id", runID,
		"output", result.OutputPath,
		"duration", duration.Round(time.Millisecond))
	return result, nil
}

// attachEnergy computes the packed geometry's single-point energy when a
// converter is available. Failure here never demotes a successful run.
func (r *Runner) attachEnergy(ctx context.Context, s *Session, result *RunResult) {
	conv := s.converter()
	if conv == nil {
		return
	}
	energy, err := conv.Energy(ctx, result.OutputPath, s.ForceField())
	if err != nil {
		r.Logger.Warn("energy evaluation failed",
			"run_id", result.ID,
			"output", result.OutputPath,
			"error", err)
		return
	}
	result.Energy = &energy
}
