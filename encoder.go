package satenc

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Encoder is the facade tying a VarMap to a Backend: every constraint
// added through it is translated into clauses against the same VarMap, so
// that names and reprs stay consistent across many AddConstraint calls.
type Encoder[V SatVar, S Backend] struct {
	Backend S
	VarMap  *VarMap[V]

	debug  bool
	logger zerolog.Logger
}

// NewEncoder wraps backend in a fresh Encoder with its own VarMap.
func NewEncoder[V SatVar, S Backend](backend S) *Encoder[V, S] {
	return &Encoder[V, S]{
		Backend: backend,
		VarMap:  NewVarMap[V](),
		logger:  zerolog.Nop(),
	}
}

// WithDebug turns on structured logging of every constraint addition,
// writing to w. If the configured Backend implements DebugSink, debug
// annotations are routed there instead (for example, so a DIMACS writer
// can emit them as "c" comment lines next to the clauses they describe).
func (e *Encoder[V, S]) WithDebug(w io.Writer) *Encoder[V, S] {
	e.debug = true
	e.logger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger()
	return e
}

func (e *Encoder[V, S]) logConstraint(c interface{}) {
	if !e.debug {
		return
	}
	if sink, ok := interface{}(e.Backend).(DebugSink); ok {
		sink.AddDebugInfo(c)
		return
	}
	e.logger.Debug().Str("constraint", fmt.Sprintf("%+v", c)).Msg("add_constraint")
}

func (e *Encoder[V, S]) logRepr(suffix string) {
	if !e.debug {
		return
	}
	if sink, ok := interface{}(e.Backend).(DebugSink); ok {
		sink.AppendDebugInfo(suffix)
		return
	}
	e.logger.Debug().Str("repr", suffix).Msg("repr assigned")
}

// AddConstraint asserts c as a hard requirement.
func (e *Encoder[V, S]) AddConstraint(c Constraint[V]) {
	e.logConstraint(c)
	c.Encode(e.Backend, e.VarMap)
}

// AddConstraintImpliesRepr reifies c such that c holding implies the
// returned literal is true, and returns that literal so it can be fed into
// further constraints.
func (e *Encoder[V, S]) AddConstraintImpliesRepr(c ConstraintRepr[V]) AnyLit[V] {
	e.logConstraint(c)
	r := c.EncodeImpliesRepr(nil, e.Backend, e.VarMap)
	e.logRepr(fmt.Sprintf(" => %d", r))
	return AnonLit[V](r)
}

// AddConstraintEqualsRepr reifies c such that the returned literal is true
// if and only if c holds.
func (e *Encoder[V, S]) AddConstraintEqualsRepr(c ConstraintRepr[V]) AnyLit[V] {
	e.logConstraint(c)
	r := c.EncodeEqualsRepr(nil, e.Backend, e.VarMap)
	e.logRepr(fmt.Sprintf(" == %d", r))
	return AnonLit[V](r)
}

// Solve runs the configured Backend's search and, on a satisfiable
// outcome, builds a Model covering every variable this Encoder has ever
// allocated. It panics if Backend does not implement Solver — calling
// Solve on a write-only backend (such as a DIMACS writer) is a programmer
// error, not a recoverable one.
func (e *Encoder[V, S]) Solve() (*Model[V], bool) {
	solver, ok := interface{}(e.Backend).(Solver)
	if !ok {
		panic("satenc: Encoder.Solve requires a Backend that implements Solver")
	}
	if solver.Solve() != Sat {
		return nil, false
	}
	m := newModel[V]()
	for _, id := range e.VarMap.IterInternalVars() {
		val := solver.Value(id)
		if v, ok := e.VarMap.LookupVar(id); ok {
			m.setVar(v, val)
			continue
		}
		if val {
			m.setAnon(id)
		} else {
			m.setAnon(-id)
		}
	}
	return m, true
}
