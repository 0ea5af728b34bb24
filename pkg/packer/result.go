package packer

import (
	"strings"
	"time"
)

// Classification is the outcome category of one packmol run.
type Classification string

const (
	// ClassSuccess: packmol exited cleanly with no failure marker.
	ClassSuccess Classification = "success"

	// ClassSoftFailure: packmol finished but could not fully satisfy the
	// tolerance constraints; the best partial result is still written to
	// the output path. Retryable (the autosize search continues past it).
	ClassSoftFailure Classification = "soft_failure"

	// ClassHardFailure: packmol could not proceed at all, either through
	// an error exit status or an ERROR marker in its output. Terminal.
	ClassHardFailure Classification = "hard_failure"
)

// Output marker tokens packmol emits. The substring search and its
// precedence (exit status, then ERROR, then STOP) are part of the
// observable contract and must not be reordered.
const (
	markerError = "ERROR"
	markerStop  = "STOP"
)

// RunResult is the outcome of one run. Exactly one is produced per run
// invocation and replaces the session's previous result.
type RunResult struct {
	// ID is a unique identifier for log correlation.
	ID string

	// OutputPath is where packmol wrote (or would have written) the
	// packed geometry.
	OutputPath string

	// Output is the captured combined stdout/stderr of the subprocess.
	Output string

	// Classification is the outcome category.
	Classification Classification

	// Energy is the single-point energy of the packed geometry under the
	// session force field. Nil when the run failed, no converter is
	// available, or the evaluation itself failed.
	Energy *float64

	// Seed is the bounded random seed the run was serialized with.
	Seed int64

	// Duration is the wall time of the subprocess.
	Duration time.Duration
}

// Succeeded reports whether the run classified as a success.
func (r *RunResult) Succeeded() bool {
	return r.Classification == ClassSuccess
}

// classify maps a subprocess outcome onto the run taxonomy, returning the
// classification and a human-readable reason.
func classify(output string, exitErr error) (Classification, string) {
	if exitErr != nil {
		return ClassHardFailure, "packmol terminated with an error"
	}
	if strings.Contains(output, markerError) {
		return ClassHardFailure, "could not place structures in the packing region; increase tolerance or region size"
	}
	if strings.Contains(output, markerStop) {
		return ClassSoftFailure, "tolerance constraints not fully satisfied; best attempt kept at the output path"
	}
	return ClassSuccess, ""
}
