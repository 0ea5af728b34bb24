package packer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtualzx/molpack/pkg/errors"
	"github.com/virtualzx/molpack/pkg/molecule"
)

const waterXYZ = "3\nwater\nO 0.0000 0.0000 0.1173\nH 0.0000 0.7572 -0.4692\nH 0.0000 -0.7572 -0.4692\n"

// fixedSeedSource always yields the same seed.
type fixedSeedSource struct{ seed int64 }

func (f fixedSeedSource) Seed() int64 { return f.seed }

func writeXYZ(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(waterXYZ), 0644))
	return path
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(nil, nil)
	t.Cleanup(func() { s.Close() })
	s.SetSeedSource(fixedSeedSource{seed: 12345})
	return s
}

func addWater(t *testing.T, s *Session, count int) {
	t.Helper()
	path := writeXYZ(t, "water.xyz")
	require.NoError(t, s.AddStructure(context.Background(), path, StructureSpec{Count: count}))
}

func TestSerializeHeaderAndDefaults(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 500)

	text, err := s.Serialize()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	assert.Equal(t, "filetype xyz", lines[0])
	assert.Equal(t, "seed 12345", lines[1])
	assert.Equal(t, "tolerance 3", lines[2])
	assert.Equal(t, "output packed.xyz", lines[3])

	assert.Contains(t, text, "  number 500\n")
	assert.Contains(t, text, "  inside sphere 0.0 0.0 0.0 10\n")
	assert.Contains(t, text, "end structure\n")

	// Internal options never serialize as pass-through directives.
	assert.NotContains(t, text, "executable")
	assert.NotContains(t, text, "region_type")
	assert.NotContains(t, text, "forcefield")

	assert.Equal(t, text, s.LastInput())
}

func TestSerializeEntryOrder(t *testing.T) {
	s := newTestSession(t)

	first := writeXYZ(t, "first.xyz")
	second := writeXYZ(t, "second.xyz")
	require.NoError(t, s.AddStructure(context.Background(), first, StructureSpec{Count: 2}))
	require.NoError(t, s.AddStructure(context.Background(), second, StructureSpec{Count: 3}))

	text, err := s.Serialize()
	require.NoError(t, err)

	blocks := strings.Split(text, "end structure\n")
	require.Len(t, blocks, 3, "two blocks plus trailing remainder")
	assert.Contains(t, blocks[0], "  number 2\n")
	assert.Contains(t, blocks[1], "  number 3\n")
}

func TestSerializeEntryOptions(t *testing.T) {
	s := newTestSession(t)
	path := writeXYZ(t, "water.xyz")

	opts := NewOptions()
	opts.Set("fixed", "0. 0. 0. 0. 0. 0.")
	opts.Set("resnumbers", 2)
	require.NoError(t, s.AddStructure(context.Background(), path, StructureSpec{Count: 1, Options: opts}))

	text, err := s.Serialize()
	require.NoError(t, err)
	assert.Contains(t, text, "  fixed 0. 0. 0. 0. 0. 0.\n")
	assert.Contains(t, text, "  resnumbers 2\n")
}

func TestSerializeBoolOptions(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 1)
	s.SetOption("check", true)
	s.SetOption("writecrd", false)

	text, err := s.Serialize()
	require.NoError(t, err)

	assert.Contains(t, text, "\ncheck\n", "true booleans render as a bare directive")
	assert.NotContains(t, text, "writecrd", "false booleans are omitted")
}

func TestSerializeClearKeepsOptions(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 10)
	s.SetOption(OptTolerance, 2.5)

	s.Clear()
	assert.Equal(t, 0, s.Len())

	text, err := s.Serialize()
	require.NoError(t, err)
	assert.NotContains(t, text, "structure ")
	assert.Contains(t, text, "tolerance 2.5\n")
}

func TestSerializeUnsupportedRegion(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 1)
	s.SetOption(OptRegionType, "cube")

	_, err := s.Serialize()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedRegion), "got %v", err)
}

func TestSerializeEmptyRegionOmitsClause(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 1)
	s.SetOption(OptRegionType, "")

	text, err := s.Serialize()
	require.NoError(t, err)
	assert.NotContains(t, text, "inside sphere")
}

func TestSerializeExplicitSeedWins(t *testing.T) {
	s := newTestSession(t)
	s.SetOption(OptSeed, int64(maxSeed+99))

	text, err := s.Serialize()
	require.NoError(t, err)
	assert.Contains(t, text, fmt.Sprintf("seed %d\n", 99), "explicit seeds pass through the bounding reduction")
}

func TestSerializeDeterministicWithFixedSeed(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 5)

	a, err := s.Serialize()
	require.NoError(t, err)
	b, err := s.Serialize()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSerializeRejectsBadOptionValues(t *testing.T) {
	s := newTestSession(t)
	s.SetOption("nloop", []int{1, 2})

	_, err := s.Serialize()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidOption), "got %v", err)

	s2 := newTestSession(t)
	s2.SetOption("Bad Name", 1)
	_, err = s2.Serialize()
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidOption), "got %v", err)
}

func TestAddStructureRejectsNegativeCount(t *testing.T) {
	s := newTestSession(t)
	path := writeXYZ(t, "water.xyz")

	err := s.AddStructure(context.Background(), path, StructureSpec{Count: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
	assert.Equal(t, 0, s.Len(), "failed add must leave the session unchanged")
}

func TestAddStructureDefaultsCountToOne(t *testing.T) {
	s := newTestSession(t)
	addWater(t, s, 0)

	text, err := s.Serialize()
	require.NoError(t, err)
	assert.Contains(t, text, "  number 1\n")
}

func TestClearReleasesGeometries(t *testing.T) {
	s := NewSession(molecule.NewNormalizer(nil, nil), nil)
	defer s.Close()

	path := writeXYZ(t, "water.xyz")
	require.NoError(t, s.AddStructure(context.Background(), path, StructureSpec{Count: 1}))
	geomPath := s.entries[0].GeometryPath()

	s.Clear()
	_, statErr := os.Stat(geomPath)
	assert.True(t, os.IsNotExist(statErr), "geometry temp file should be removed")
}
