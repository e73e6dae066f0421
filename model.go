package satenc

import (
	"fmt"
	"sort"
	"strings"
)

// Model is a satisfying assignment recovered from a Solver, queryable by
// symbolic variable, Lit, or AnyLit.
type Model[V SatVar] struct {
	named map[V]bool
	anon  map[int32]bool
}

func newModel[V SatVar]() *Model[V] {
	return &Model[V]{named: make(map[V]bool), anon: make(map[int32]bool)}
}

func (m *Model[V]) setVar(v V, val bool) { m.named[v] = val }

func (m *Model[V]) setAnon(signed int32) {
	id, val := signed, true
	if signed < 0 {
		id, val = -signed, false
	}
	m.anon[id] = val
}

// Var reports the truth value assigned to v, and false if v was never
// named in the VarMap that produced this Model.
func (m *Model[V]) Var(v V) (bool, bool) {
	val, ok := m.named[v]
	return val, ok
}

// Lit reports the truth value of l under this Model.
func (m *Model[V]) Lit(l Lit[V]) (bool, bool) {
	val, ok := m.Var(l.v)
	if !ok {
		return false, false
	}
	if l.neg {
		return !val, true
	}
	return val, true
}

// AnyLit reports the truth value of a under this Model.
func (m *Model[V]) AnyLit(a AnyLit[V]) (bool, bool) {
	if a.isAnon {
		id, want := a.anon, true
		if id < 0 {
			id, want = -id, false
		}
		val, ok := m.anon[id]
		if !ok {
			return false, false
		}
		return val == want, true
	}
	return m.Lit(a.lit)
}

// Vars returns every named variable's assignment as a positive or negative
// Lit, in a stable (string-sorted) order.
func (m *Model[V]) Vars() []Lit[V] {
	out := make([]Lit[V], 0, len(m.named))
	for v, val := range m.named {
		if val {
			out = append(out, Pos(v))
		} else {
			out = append(out, Neg(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// AllVars returns every variable's assignment, named and anonymous, in a
// stable order (named first, then anonymous by id).
func (m *Model[V]) AllVars() []AnyLit[V] {
	out := make([]AnyLit[V], 0, len(m.named)+len(m.anon))
	for _, l := range m.Vars() {
		out = append(out, NamedLit(l))
	}
	ids := make([]int32, 0, len(m.anon))
	for id := range m.anon {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if m.anon[id] {
			out = append(out, AnonLit[V](id))
		} else {
			out = append(out, AnonLit[V](-id))
		}
	}
	return out
}

func (m *Model[V]) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, l := range m.Vars() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, l)
	}
	b.WriteString("}")
	return b.String()
}
