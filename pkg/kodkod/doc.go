// Package kodkod implements a finite-model finder for first-order relational
// logic with transitive closure and bounded integers. Callers declare
// relations whose extensions are constrained by lower/upper tuple bounds over
// a finite universe of atoms, build a formula in a relational algebra with
// quantifiers, and ask whether the formula is satisfiable under those
// bounds.
//
// The package translates that formula into a boolean-circuit DAG shared
// across the whole problem (package-internal hash-consing keeps the DAG
// small), lowers the circuit to CNF, and delegates the actual search to an
// injected SATSolver. A satisfiable result decodes back into a concrete
// Instance; an unsatisfiable one, when WithTranslationLog is enabled,
// comes back with a Proof already reduced to a locally minimal set of
// top-level conjuncts via Proof.Core.
//
// Everything in this package runs synchronously on the caller's goroutine.
// A Solver is not safe for concurrent use, but distinct Solver values are
// fully independent.
package kodkod
