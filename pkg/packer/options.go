package packer

// Option names consumed internally by the session. Everything else set on
// a session or a structure entry is forwarded verbatim into the packmol
// input program.
const (
	// OptExecutable is the packmol command line. Whitespace-split into
	// argv, so wrappers like "mpirun packmol" work.
	OptExecutable = "executable"

	// OptRegionType is the placement-region shape. Only "sphere" is
	// supported; empty means no region constraint.
	OptRegionType = "region_type"

	// OptDimensions is the placement-region size (sphere radius).
	OptDimensions = "dimensions"

	// OptForceField is the force field used for 3-D embedding and energy
	// evaluation.
	OptForceField = "forcefield"

	// OptSeed is the random seed. Unset or zero derives a seed from the
	// session's seed source at serialization time.
	OptSeed = "seed"
)

// Pass-through option names with documented defaults.
const (
	// OptTolerance is the minimum inter-molecule distance packmol
	// enforces.
	OptTolerance = "tolerance"

	// OptOutput is the path packmol writes the packed geometry to.
	OptOutput = "output"
)

// Documented defaults, matching the wrapped program's conventions.
const (
	DefaultExecutable = "packmol"
	DefaultRegionType = "sphere"
	DefaultDimensions = 10.0
	DefaultForceField = "mmff94"
	DefaultTolerance  = 3.0
	DefaultOutput     = "packed.xyz"
)

// internalOptions are consumed by the session itself and never serialized
// as pass-through directives.
var internalOptions = map[string]bool{
	OptExecutable: true,
	OptRegionType: true,
	OptDimensions: true,
	OptForceField: true,
	OptSeed:       true,
}

// Options is an insertion-ordered option mapping. Values are restricted
// to the closed variant {string, bool, int, int64, float64}; anything
// else is rejected at serialization time, not at Set time, mirroring the
// session's deferred-validation contract.
type Options struct {
	names  []string
	values map[string]any
}

// NewOptions creates an empty option mapping.
func NewOptions() *Options {
	return &Options{values: make(map[string]any)}
}

// Set stores an option. Setting an existing name overwrites the value but
// keeps the name's original position (last write wins, order preserved).
func (o *Options) Set(name string, value any) {
	if _, ok := o.values[name]; !ok {
		o.names = append(o.names, name)
	}
	o.values[name] = value
}

// Get returns the value for name.
func (o *Options) Get(name string) (any, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Names returns the option names in insertion order.
func (o *Options) Names() []string {
	return o.names
}

// Len returns the number of options.
func (o *Options) Len() int {
	return len(o.names)
}

// Clone returns an independent copy.
func (o *Options) Clone() *Options {
	c := NewOptions()
	for _, name := range o.names {
		c.Set(name, o.values[name])
	}
	return c
}

// stringValue returns the option as a string, or "" when unset or not a
// string.
func (o *Options) stringValue(name string) string {
	if v, ok := o.values[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// floatValue returns the option as a float64, converting integer values.
func (o *Options) floatValue(name string) (float64, bool) {
	v, ok := o.values[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// intValue returns the option as an int64, truncating float values.
func (o *Options) intValue(name string) (int64, bool) {
	v, ok := o.values[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

// defaultOptions builds the documented default session options.
func defaultOptions() *Options {
	o := NewOptions()
	o.Set(OptExecutable, DefaultExecutable)
	o.Set(OptRegionType, DefaultRegionType)
	o.Set(OptDimensions, DefaultDimensions)
	o.Set(OptForceField, DefaultForceField)
	o.Set(OptTolerance, DefaultTolerance)
	o.Set(OptOutput, DefaultOutput)
	return o
}
