package kodkod

import "github.com/sirupsen/logrus"

// SolvePhase identifies a stage of the translate/CNF/SAT/core pipeline, for
// Tracer notifications.
type SolvePhase int

const (
	PhaseAnnotate SolvePhase = iota
	PhaseTranslate
	PhaseCNF
	PhaseSAT
	PhaseCore
	PhaseMinimize
)

func (p SolvePhase) String() string {
	switch p {
	case PhaseAnnotate:
		return "annotate"
	case PhaseTranslate:
		return "translate"
	case PhaseCNF:
		return "cnf"
	case PhaseSAT:
		return "sat"
	case PhaseCore:
		return "core"
	case PhaseMinimize:
		return "minimize"
	default:
		return "unknown"
	}
}

// Tracer is notified as the Solver moves between phases of a single
// Solve call, so callers can observe internal progress without the
// translation log's full overhead.
type Tracer interface {
	Trace(phase SolvePhase, detail string)
}

// noopTracer is the default Tracer: it discards every notification.
type noopTracer struct{}

func (noopTracer) Trace(SolvePhase, string) {}

// LoggingTracer reports every phase transition through a logrus logger
// at Debug level.
type LoggingTracer struct {
	Logger *logrus.Logger
}

// Trace logs phase and detail at Debug level.
func (t LoggingTracer) Trace(phase SolvePhase, detail string) {
	logger := t.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithField("phase", phase.String()).Debug(detail)
}
