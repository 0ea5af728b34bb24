package molecule

import "context"

// CanonicalFormat is the coordinate format the packer requires as input.
// Every normalized geometry is stored in this format.
const CanonicalFormat = "xyz"

// Converter is the external format-conversion capability. The production
// implementation shells out to Open Babel (pkg/openbabel); tests supply
// fakes. A nil Converter means conversion is unavailable and only
// canonical-format inputs can be normalized.
type Converter interface {
	// ConvertFile reads a molecular structure file in the given format
	// and returns its content exported as canonical-format bytes.
	ConvertFile(ctx context.Context, path, format string) ([]byte, error)

	// Embed3D generates 3-D coordinates for a chemical line notation
	// (SMILES) string under the given force field and returns the result
	// as canonical-format bytes.
	Embed3D(ctx context.Context, smiles, forceField string) ([]byte, error)

	// Energy computes the single-point energy of a canonical-format
	// geometry file under the given force field. The unit is whatever the
	// underlying force field implementation reports (kcal/mol for MMFF94).
	Energy(ctx context.Context, path, forceField string) (float64, error)
}
