package kodkod

import "fmt"

// Outcome is the result category of a single Solve call (spec.md §7).
type Outcome int

const (
	// SAT means the SAT solver found a satisfying assignment.
	SAT Outcome = iota
	// UNSAT means the SAT solver proved no assignment exists.
	UNSAT
	// TriviallySAT means the root circuit reduced to TrueLit before
	// reaching the SAT solver.
	TriviallySAT
	// TriviallyUnsat means the root circuit reduced to FalseLit before
	// reaching the SAT solver.
	TriviallyUnsat
	// Timeout means the SAT solver exhausted its budget without
	// deciding either way.
	Timeout
)

func (o Outcome) String() string {
	switch o {
	case SAT:
		return "SAT"
	case UNSAT:
		return "UNSAT"
	case TriviallySAT:
		return "TRIVIALLY_SAT"
	case TriviallyUnsat:
		return "TRIVIALLY_UNSAT"
	case Timeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Instance maps each relation bounded in a Bounds to its decoded
// extension (spec.md's GLOSSARY: "mapping from each bounded relation to
// a tuple set between its lower and upper bounds").
type Instance struct {
	universe  *Universe
	relations map[*Relation]TupleSet
}

// Tuples returns r's decoded extension and true, or the zero TupleSet and
// false if r was not bounded in the Bounds this instance was decoded from.
func (i *Instance) Tuples(r *Relation) (TupleSet, bool) {
	ts, ok := i.relations[r]
	return ts, ok
}

// Universe returns the universe this instance's tuples are drawn from.
func (i *Instance) Universe() *Universe { return i.universe }

// Result is the outcome of a Solver.Solve call: at most one of Instance
// (on SAT / TriviallySAT) or Proof (on UNSAT, if translation logging was
// enabled) is populated; on TriviallyUnsat, Timeout, or UNSAT without
// translation logging, neither is.
type Result struct {
	Outcome  Outcome
	Instance *Instance
	Proof    *Proof
}

// Solver is the facade orchestrating annotation, translation, CNF
// emission, SAT solving, and (on UNSAT) core extraction (spec.md §2's
// "Solver facade").
type Solver struct {
	cfg *config
}

// NewSolver returns a Solver configured by opts; unset options take the
// defaults documented on each With* function.
func NewSolver(opts ...Option) *Solver {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Solver{cfg: cfg}
}

// Solve translates f under bounds, hands the resulting CNF to sat, and
// returns the outcome. bounds is frozen as a side effect (spec.md §3's
// Bounds lifecycle). Translation errors (malformed AST: unbound
// variables, unknown constants) are returned as errors; unsatisfiability
// is reported as a Result, never an error (spec.md §7).
func (s *Solver) Solve(f Formula, bounds *Bounds, sat SATSolver) (*Result, error) {
	bounds.freeze()
	logger := s.cfg.logger

	s.cfg.tracer.Trace(PhaseAnnotate, "annotating formula")
	ann := Annotate(f)

	circuit := NewCircuit(s.cfg.comparisonDepth)
	translator := NewTranslator(circuit, bounds, ann, s.cfg)

	s.cfg.tracer.Trace(PhaseTranslate, "translating formula")
	logger.WithField("phase", "translate").Debug("translating root formula")
	root, err := translator.TranslateFormula(f)
	if err != nil {
		return nil, fmt.Errorf("kodkod: translation failed: %w", err)
	}

	if root == TrueLit {
		logger.Debug("root formula reduced to TRUE before reaching the SAT solver")
		return &Result{Outcome: TriviallySAT, Instance: s.decodeDirect(bounds, translator)}, nil
	}
	if root == FalseLit {
		logger.Debug("root formula reduced to FALSE before reaching the SAT solver")
		return &Result{Outcome: TriviallyUnsat}, nil
	}

	s.cfg.tracer.Trace(PhaseCNF, "emitting CNF")
	emitter := NewCNFEmitter(circuit, sat)
	topLits, err := emitter.Emit(root)
	if err != nil {
		return nil, fmt.Errorf("kodkod: CNF emission failed: %w", err)
	}

	s.cfg.tracer.Trace(PhaseSAT, "invoking SAT solver")
	switch sat.Solve() {
	case ResultSAT:
		logger.Debug("solver returned SAT")
		instance, err := s.decodeFromSAT(bounds, translator, emitter, sat)
		if err != nil {
			return nil, err
		}
		return &Result{Outcome: SAT, Instance: instance}, nil

	case ResultUNSAT:
		logger.Debug("solver returned UNSAT")
		if !s.cfg.logTranslation {
			return &Result{Outcome: UNSAT}, nil
		}
		s.cfg.tracer.Trace(PhaseCore, "extracting unsatisfiable core")
		trace, err := sat.Proof()
		if err != nil {
			return nil, fmt.Errorf("kodkod: proof retrieval failed: %w", err)
		}

		s.cfg.tracer.Trace(PhaseMinimize, "minimizing core")
		strategy := NewMinTopStrategy(ann.TopConjuncts, topLits, translator.Log())
		minimized, err := sat.Reduce(strategy)
		core := ann.TopConjuncts
		if err != nil {
			// Core minimization never invalidates the last known core
			// (spec.md §7): fall back to the unminimized trace and report
			// every top conjunct, never claiming a smaller core than we
			// actually verified.
			logger.WithError(err).Warn("core minimization failed; reporting unminimized core")
			minimized = trace
		} else {
			core = strategy.Necessary()
		}

		proof := NewProof(minimized, core)
		return &Result{Outcome: UNSAT, Proof: proof}, nil

	default:
		logger.Debug("solver returned no decision (timeout)")
		return &Result{Outcome: Timeout}, nil
	}
}

// decodeDirect builds an Instance when the root formula was trivially
// true: every bounded relation decodes to its lower bound, since no
// solver variables were ever assigned a meaning.
func (s *Solver) decodeDirect(bounds *Bounds, translator *Translator) *Instance {
	out := &Instance{universe: bounds.Universe(), relations: make(map[*Relation]TupleSet)}
	for _, r := range bounds.Relations() {
		lower, _ := bounds.LowerBound(r)
		out.relations[r] = lower
	}
	return out
}

// decodeFromSAT builds an Instance from sat's assignment: for each
// bounded relation that the translator actually allocated a matrix for,
// a tuple is in the decoded extension iff its cell evaluates true;
// relations never referenced by the formula decode to their lower bound.
func (s *Solver) decodeFromSAT(bounds *Bounds, translator *Translator, emitter *CNFEmitter, sat SATSolver) (*Instance, error) {
	out := &Instance{universe: bounds.Universe(), relations: make(map[*Relation]TupleSet)}
	for _, r := range bounds.Relations() {
		m, ok := translator.relationMatrix[r]
		if !ok {
			lower, _ := bounds.LowerBound(r)
			out.relations[r] = lower
			continue
		}
		var trueIdx []int
		for _, idx := range m.Indices() {
			val, err := emitter.Value(sat, m.Get(idx))
			if err != nil {
				return nil, err
			}
			if val {
				trueIdx = append(trueIdx, idx)
			}
		}
		out.relations[r] = TupleSet{universe: bounds.Universe(), arity: r.Arity(), indices: NewIntSet(trueIdx...)}
	}
	return out, nil
}
