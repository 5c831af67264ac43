package kodkod

import "github.com/sirupsen/logrus"

// Option configures a Solver. Use the With* helpers below to customize
// symmetry breaking, integer encoding, translation logging, circuit
// flattening depth, skolemization depth, the logger, and the tracer
// (spec.md §6's configuration-options table).
type Option func(*config)

type config struct {
	symmetryBreaking int
	intEncoding      IntEncoding
	bitwidth         int
	logTranslation   bool
	comparisonDepth  int
	skolemDepth      int
	logger           *logrus.Logger
	tracer           Tracer
}

func defaultConfig() *config {
	return &config{
		symmetryBreaking: 20,
		intEncoding:      TwosComplement,
		bitwidth:         8,
		logTranslation:   false,
		comparisonDepth:  3,
		skolemDepth:      0,
		logger:           logrus.StandardLogger(),
		tracer:           noopTracer{},
	}
}

// WithSymmetryBreaking records the size of the symmetry-breaking predicate
// (0 meaning none). The value is stored in the configuration only: Solve
// does not read it and generates no symmetry-breaking predicate.
func WithSymmetryBreaking(size int) Option {
	return func(c *config) { c.symmetryBreaking = size }
}

// WithIntEncoding selects unary or two's-complement integer circuits.
func WithIntEncoding(enc IntEncoding) Option {
	return func(c *config) { c.intEncoding = enc }
}

// WithBitwidth sets the two's-complement bit width used for integer
// circuits. Under Unary encoding the same value is the thermometer length
// of integer constants, i.e. the largest constant they can represent.
func WithBitwidth(bits int) Option {
	return func(c *config) { c.bitwidth = bits }
}

// WithTranslationLog enables the translation log required for
// unsatisfiable-core extraction (spec.md §4.3, §4.6). Off by default,
// since it costs memory proportional to the number of non-trivial nodes
// translated.
func WithTranslationLog(enabled bool) Option {
	return func(c *config) { c.logTranslation = enabled }
}

// WithComparisonDepth sets the circuit factory's flattening depth for
// AND/OR structural-equality checks during construction (spec.md §4.1).
// Values < 1 fall back to the circuit factory's own default.
func WithComparisonDepth(depth int) Option {
	return func(c *config) { c.comparisonDepth = depth }
}

// WithSkolemDepth records the maximum quantifier-nesting depth eligible
// for skolemization. The value is stored in the configuration only: the
// translator performs no skolemization and enumerates every quantifier's
// ground bindings whatever the depth.
func WithSkolemDepth(depth int) Option {
	return func(c *config) { c.skolemDepth = depth }
}

// WithLogger overrides the logrus logger used for solve-phase diagnostics.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithTracer overrides the Tracer notified of solve-phase milestones.
func WithTracer(t Tracer) Option {
	return func(c *config) { c.tracer = t }
}
