package cache

// Keyer produces cache keys for the different cached artifact types.
// Implementations must be deterministic: the same inputs always map to
// the same key.
type Keyer interface {
	// GeometryKey generates a key for a converted geometry.
	// inputHash is the SHA-256 of the raw input (file content or SMILES
	// string). The force field participates because 3-D embedding under
	// different force fields yields different coordinates.
	GeometryKey(inputHash, format, forceField string) string

	// EnergyKey generates a key for a single-point energy value.
	// geometryHash is the SHA-256 of the geometry file content.
	EnergyKey(geometryHash, forceField string) string
}

// DefaultKeyer is the standard key generation strategy.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GeometryKey generates a key for a converted geometry.
func (k *DefaultKeyer) GeometryKey(inputHash, format, forceField string) string {
	return hashKey("geometry", inputHash, format, forceField)
}

// EnergyKey generates a key for a single-point energy value.
func (k *DefaultKeyer) EnergyKey(geometryHash, forceField string) string {
	return hashKey("energy", geometryHash, forceField)
}
