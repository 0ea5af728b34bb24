package packer

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtualzx/molpack/pkg/errors"
	"github.com/virtualzx/molpack/pkg/molecule"
)

// stubConverter implements molecule.Converter for energy-attachment tests.
type stubConverter struct {
	energy      float64
	energyErr   error
	energyCalls int
	lastPath    string
	lastFF      string
}

func (c *stubConverter) ConvertFile(ctx context.Context, path, format string) ([]byte, error) {
	return []byte(waterXYZ), nil
}

func (c *stubConverter) Embed3D(ctx context.Context, smiles, forceField string) ([]byte, error) {
	return []byte(waterXYZ), nil
}

func (c *stubConverter) Energy(ctx context.Context, path, forceField string) (float64, error) {
	c.energyCalls++
	c.lastPath = path
	c.lastFF = forceField
	return c.energy, c.energyErr
}

// fakeCommand records invocations and replays canned subprocess output.
type fakeCommand struct {
	output string
	err    error
	calls  int
	argv   []string
	stdin  string
}

func (f *fakeCommand) run(ctx context.Context, argv []string, stdin io.Reader) ([]byte, error) {
	f.calls++
	f.argv = argv
	in, _ := io.ReadAll(stdin)
	f.stdin = string(in)
	return []byte(f.output), f.err
}

func newTestRunner(cmd *fakeCommand) *Runner {
	r := NewRunner(nil)
	r.Command = cmd.run
	return r
}

func TestRunSuccess(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 10)

	cmd := &fakeCommand{output: "Success!\nPacking finished.\n"}
	r := newTestRunner(cmd)

	result, err := r.Run(context.Background(), s)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, ClassSuccess, result.Classification)
	assert.True(t, result.Succeeded())
	assert.Equal(t, DefaultOutput, result.OutputPath)
	assert.Equal(t, int64(12345), result.Seed)
	assert.NotEmpty(t, result.ID)
	assert.Nil(t, result.Energy, "no converter, no energy")
	assert.Same(t, result, s.LastResult())

	assert.Equal(t, []string{"packmol"}, cmd.argv)
	assert.Equal(t, s.LastInput(), cmd.stdin, "the serialized program is fed on stdin")
}

func TestRunHardFailureOnErrorMarker(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 10)

	cmd := &fakeCommand{output: "ERROR: molecules too close\n"}
	r := newTestRunner(cmd)

	result, err := r.Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeHardFailure), "got %v", err)

	require.NotNil(t, result, "a classified result accompanies the failure")
	assert.Equal(t, ClassHardFailure, result.Classification)
	assert.Same(t, result, s.LastResult(), "failures still record the last result")
}

func TestRunSoftFailureOnStopMarker(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 10)

	cmd := &fakeCommand{output: "STOP: maximum loops reached\n"}
	r := newTestRunner(cmd)

	result, err := r.Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeSoftFailure), "got %v", err)
	assert.Equal(t, ClassSoftFailure, result.Classification)
	assert.False(t, result.Succeeded())
}

func TestRunHardFailureOnExitError(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 10)

	// Output looks clean; the exit status alone decides.
	cmd := &fakeCommand{output: "partial output\n", err: fmt.Errorf("exit status 1")}
	r := newTestRunner(cmd)

	result, err := r.Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeHardFailure), "got %v", err)
	assert.Equal(t, ClassHardFailure, result.Classification)
}

func TestRunErrorMarkerBeatsStopMarker(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 10)

	cmd := &fakeCommand{output: "STOP\nERROR\n"}
	r := newTestRunner(cmd)

	result, err := r.Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeHardFailure), "got %v", err)
	assert.Equal(t, ClassHardFailure, result.Classification)
}

func TestRunExecutableSplitsIntoArgv(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 1)
	s.SetOption(OptExecutable, "mpirun -np 4 packmol")

	cmd := &fakeCommand{output: "Success!\n"}
	r := newTestRunner(cmd)

	_, err := r.Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"mpirun", "-np", "4", "packmol"}, cmd.argv)
}

func TestRunBlankExecutableRejected(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 1)
	s.SetOption(OptExecutable, "   ")

	r := newTestRunner(&fakeCommand{output: "Success!\n"})

	_, err := r.Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidOption), "got %v", err)
}

func TestRunSerializationErrorAbortsBeforeSubprocess(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 1)
	s.SetOption(OptRegionType, "cube")

	cmd := &fakeCommand{output: "Success!\n"}
	r := newTestRunner(cmd)

	_, err := r.Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedRegion), "got %v", err)
	assert.Equal(t, 0, cmd.calls)
}

func TestRunAttachesEnergyOnSuccess(t *testing.T) {
	conv := &stubConverter{energy: -42.5}
	s := NewSession(molecule.NewNormalizer(conv, nil), nil)
	defer s.Close()
	s.SetSeedSource(fixedSeedSource{seed: 1})
	addWater(t, s, 10)
	s.SetOption(OptOutput, "cluster.xyz")
	s.SetOption(OptForceField, "uff")

	r := newTestRunner(&fakeCommand{output: "Success!\n"})

	result, err := r.Run(context.Background(), s)
	require.NoError(t, err)
	require.NotNil(t, result.Energy)
	assert.Equal(t, -42.5, *result.Energy)
	assert.Equal(t, "cluster.xyz", conv.lastPath)
	assert.Equal(t, "uff", conv.lastFF)
}

func TestRunEnergyFailureKeepsSuccess(t *testing.T) {
	conv := &stubConverter{energyErr: errors.New(errors.ErrCodeEnergyUnavailable, "obenergy not found")}
	s := NewSession(molecule.NewNormalizer(conv, nil), nil)
	defer s.Close()
	s.SetSeedSource(fixedSeedSource{seed: 1})
	addWater(t, s, 10)

	r := newTestRunner(&fakeCommand{output: "Success!\n"})

	result, err := r.Run(context.Background(), s)
	require.NoError(t, err, "energy problems never demote a successful run")
	assert.Equal(t, ClassSuccess, result.Classification)
	assert.Nil(t, result.Energy)
	assert.Equal(t, 1, conv.energyCalls)
}

func TestRunNoEnergyOnFailure(t *testing.T) {
	conv := &stubConverter{energy: -1.0}
	s := NewSession(molecule.NewNormalizer(conv, nil), nil)
	defer s.Close()
	s.SetSeedSource(fixedSeedSource{seed: 1})
	addWater(t, s, 10)

	r := newTestRunner(&fakeCommand{output: "STOP\n"})

	result, err := r.Run(context.Background(), s)
	require.Error(t, err)
	assert.Nil(t, result.Energy)
	assert.Equal(t, 0, conv.energyCalls)
}
