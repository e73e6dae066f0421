package satenc

// SolveResult is the three-valued outcome of a Solver's search: satisfiable,
// unsatisfiable, or unknown (a resource bound or incremental search was
// exhausted without deciding either way).
type SolveResult int

const (
	Unknown SolveResult = iota
	Sat
	Unsat
)

func (r SolveResult) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Backend accepts CNF clauses. Every encoding routine in this module talks
// only to this interface; nothing in the encoder family assumes the
// clauses are ever solved.
type Backend interface {
	// AddClause asserts the disjunction of lits. Each entry is a signed
	// DIMACS-convention literal (variable = |lit|, polarity = sign(lit));
	// lit must never be zero.
	AddClause(lits ...int32)
}

// DebugSink is implemented by backends that want to receive the
// constraint currently being encoded, for diagnostic annotation (for
// example, a DIMACS writer emitting "c" comment lines). It is optional:
// Encoder checks for it via a type assertion and falls back to its own
// logger when a backend doesn't implement it.
type DebugSink interface {
	AddDebugInfo(v interface{})
	AppendDebugInfo(v interface{})
}

// Solver extends Backend with the ability to decide satisfiability and
// report a model.
type Solver interface {
	Backend
	// Solve runs the search and returns its outcome.
	Solve() SolveResult
	// Value reports the truth value solver variable v was assigned in the
	// most recent Sat outcome. Backends may return a default (typically
	// true) for variables they never observed in a clause.
	Value(v int32) bool
}

// IncrementalSolver additionally supports one-shot assumption-based
// solving without mutating the backend's persistent clause database, so a
// caller can probe many hypothetical extensions of a constraint without
// re-encoding it each time. No backend in this module implements it.
type IncrementalSolver interface {
	Solver
	// AssumptionSolve decides satisfiability under assumptions with
	// extraClauses temporarily added, without persisting either. known is
	// false if the backend cannot answer without committing the
	// assumptions (for example, a backend with no true incremental
	// support).
	AssumptionSolve(assumptions []int32, extraClauses [][]int32) (value bool, known bool)
}
