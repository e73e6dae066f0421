package satenc

import "fmt"

// Constraint is anything that can assert itself as a hard requirement
// against a Backend.
type Constraint[V SatVar] interface {
	Encode(b Backend, vm *VarMap[V])
}

// ConstraintRepr additionally supports reifying itself to a literal: a
// variable that either implies, or is fully equivalent to, the constraint
// holding.
type ConstraintRepr[V SatVar] interface {
	Constraint[V]
	// EncodeImpliesRepr ties repr so that the constraint holding implies
	// repr is true (repr may be left false when the constraint doesn't
	// hold). If repr is nil, a fresh variable is allocated and returned.
	EncodeImpliesRepr(repr *int32, b Backend, vm *VarMap[V]) int32
	// EncodeEqualsRepr ties repr so that repr is true if and only if the
	// constraint holds.
	EncodeEqualsRepr(repr *int32, b Backend, vm *VarMap[V]) int32
}

func reprOrNew[V SatVar](vm *VarMap[V], repr *int32) int32 {
	if repr != nil {
		return *repr
	}
	return vm.NewVar()
}

// gatedBackend re-encodes a constraint's own clauses with one extra literal
// (guard) appended to every clause. Since a constraint's Encode method
// emits exactly the clauses whose conjunction defines its meaning, gating
// every one of them behind guard = ¬repr mechanically yields "repr implies
// the constraint" for ANY constraint, without needing to know its internal
// structure.
type gatedBackend struct {
	inner Backend
	guard int32
}

func (g *gatedBackend) AddClause(lits ...int32) {
	clause := make([]int32, 0, len(lits)+1)
	clause = append(clause, lits...)
	clause = append(clause, g.guard)
	g.inner.AddClause(clause...)
}

// reprImpliesConstraint is the generic fallback for the "repr implies
// constraint" half of an equals-repr encoding, for constraints that only
// natively implement EncodeImpliesRepr. It re-encodes c from scratch
// (allocating fresh auxiliary variables, distinct from whatever
// EncodeImpliesRepr already allocated) gated behind ¬repr.
func reprImpliesConstraint[V SatVar](c Constraint[V], repr int32, b Backend, vm *VarMap[V]) {
	c.Encode(&gatedBackend{inner: b, guard: -repr}, vm)
}

// defaultEqualsRepr is the shared EncodeEqualsRepr implementation for
// constraints that don't need a bespoke one: it reifies the forward
// direction the cheap way, then uses reprImpliesConstraint for the
// converse.
func defaultEqualsRepr[V SatVar](c ConstraintRepr[V], repr *int32, b Backend, vm *VarMap[V]) int32 {
	r := c.EncodeImpliesRepr(repr, b, vm)
	reprImpliesConstraint[V](c, r, b, vm)
	return r
}

// --- Lit / AnyLit as constraints ---

func (l Lit[V]) Encode(b Backend, vm *VarMap[V]) {
	b.AddClause(vm.AddVar(l))
}

func (l Lit[V]) EncodeImpliesRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	r := reprOrNew(vm, repr)
	lv := vm.AddVar(l)
	b.AddClause(-lv, r)
	return r
}

func (l Lit[V]) EncodeEqualsRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	r := l.EncodeImpliesRepr(repr, b, vm)
	lv := vm.AddVar(l)
	b.AddClause(lv, -r)
	return r
}

func (a AnyLit[V]) Encode(b Backend, vm *VarMap[V]) {
	b.AddClause(addAnyVar(vm, a))
}

func (a AnyLit[V]) EncodeImpliesRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	r := reprOrNew(vm, repr)
	lv := addAnyVar(vm, a)
	b.AddClause(-lv, r)
	return r
}

func (a AnyLit[V]) EncodeEqualsRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	r := a.EncodeImpliesRepr(repr, b, vm)
	lv := addAnyVar(vm, a)
	b.AddClause(lv, -r)
	return r
}

// --- Clause ---

// Clause asserts the plain disjunction of Lits.
type Clause[V SatVar] struct {
	Lits []AnyLit[V]
}

func (c Clause[V]) Encode(b Backend, vm *VarMap[V]) {
	b.AddClause(addAnyVars(vm, c.Lits)...)
}

func (c Clause[V]) EncodeImpliesRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	r := reprOrNew(vm, repr)
	vars := addAnyVars(vm, c.Lits)
	NewCircuit(b, InToOut).OrGate(vars, r)
	return r
}

func (c Clause[V]) EncodeEqualsRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	return defaultEqualsRepr[V](c, repr, b, vm)
}

// --- And ---

// And asserts that every one of Cs holds.
type And[V SatVar] struct {
	Cs []ConstraintRepr[V]
}

func (c And[V]) Encode(b Backend, vm *VarMap[V]) {
	for _, sub := range c.Cs {
		sub.Encode(b, vm)
	}
}

func (c And[V]) EncodeImpliesRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	r := reprOrNew(vm, repr)
	rs := make([]int32, len(c.Cs))
	for i, sub := range c.Cs {
		rs[i] = sub.EncodeImpliesRepr(nil, b, vm)
	}
	NewCircuit(b, InToOut).AndGate(rs, r)
	return r
}

func (c And[V]) EncodeEqualsRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	return defaultEqualsRepr[V](c, repr, b, vm)
}

// --- Or ---

// Or asserts that at least one of Cs holds.
type Or[V SatVar] struct {
	Cs []ConstraintRepr[V]
}

func (c Or[V]) Encode(b Backend, vm *VarMap[V]) {
	rs := make([]int32, len(c.Cs))
	for i, sub := range c.Cs {
		rs[i] = sub.EncodeEqualsRepr(nil, b, vm)
	}
	b.AddClause(rs...)
}

func (c Or[V]) EncodeImpliesRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	r := reprOrNew(vm, repr)
	rs := make([]int32, len(c.Cs))
	for i, sub := range c.Cs {
		rs[i] = sub.EncodeImpliesRepr(nil, b, vm)
	}
	NewCircuit(b, InToOut).OrGate(rs, r)
	return r
}

func (c Or[V]) EncodeEqualsRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	return defaultEqualsRepr[V](c, repr, b, vm)
}

// --- Equal ---

// Equal asserts that every literal in Lits carries the same truth value.
type Equal[V SatVar] struct {
	Lits []AnyLit[V]
}

func (c Equal[V]) Encode(b Backend, vm *VarMap[V]) {
	if len(c.Lits) < 2 {
		return
	}
	vars := addAnyVars(vm, c.Lits)
	circuit := NewCircuit(b, Both)
	for i := 0; i+1 < len(vars); i++ {
		circuit.Equal(vars[i], vars[i+1])
	}
}

func (c Equal[V]) EncodeImpliesRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	r := reprOrNew(vm, repr)
	if len(c.Lits) < 2 {
		b.AddClause(r)
		return r
	}
	vars := addAnyVars(vm, c.Lits)
	circuit := NewCircuit(b, InToOut)
	pairs := make([]int32, 0, len(vars)-1)
	for i := 0; i+1 < len(vars); i++ {
		e := vm.NewVar()
		circuit.IffGate(vars[i], vars[i+1], e)
		pairs = append(pairs, e)
	}
	circuit.AndGate(pairs, r)
	return r
}

func (c Equal[V]) EncodeEqualsRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	return defaultEqualsRepr[V](c, repr, b, vm)
}

// --- If ---

// If asserts Then whenever Cond holds, and Else (if non-nil) whenever Cond
// does not.
type If[V SatVar] struct {
	Cond ConstraintRepr[V]
	Then ConstraintRepr[V]
	Else ConstraintRepr[V] // nil means the else branch is vacuous
}

func (c If[V]) reifyBranches(b Backend, vm *VarMap[V]) (rc, rt, re int32, hasElse bool) {
	rc = c.Cond.EncodeEqualsRepr(nil, b, vm)
	rt = c.Then.EncodeEqualsRepr(nil, b, vm)
	if c.Else != nil {
		re = c.Else.EncodeEqualsRepr(nil, b, vm)
		hasElse = true
	}
	return
}

func (c If[V]) Encode(b Backend, vm *VarMap[V]) {
	rc, rt, re, hasElse := c.reifyBranches(b, vm)
	b.AddClause(-rc, rt)
	if hasElse {
		b.AddClause(rc, re)
	}
}

func (c If[V]) EncodeImpliesRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	rc, rt, re, hasElse := c.reifyBranches(b, vm)
	r := reprOrNew(vm, repr)
	circuit := NewCircuit(b, InToOut)

	b1 := vm.NewVar()
	circuit.OrGate([]int32{-rc, rt}, b1)
	if !hasElse {
		circuit.Equal(b1, r)
		return r
	}
	b2 := vm.NewVar()
	circuit.OrGate([]int32{rc, re}, b2)
	circuit.AndGate([]int32{b1, b2}, r)
	return r
}

func (c If[V]) EncodeEqualsRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	return defaultEqualsRepr[V](c, repr, b, vm)
}

// --- LessCardinality (unimplemented; see Open Questions) ---

// ErrLessCardinalityUnimplemented is the panic value raised by
// LessCardinality.Encode.
var ErrLessCardinalityUnimplemented = fmt.Errorf("satenc: LessCardinality is not implemented: it is ambiguous whether Smaller or Larger must have fewer true literals")

// LessCardinality would assert that fewer literals in Smaller are true
// than in Larger. The source this module is grounded on leaves this
// constraint's body unimplemented, and is ambiguous about which side the
// strict inequality binds to (Smaller < Larger, or Larger < Smaller). Per
// the resolved Open Question, this module does not guess: LessCardinality
// is exposed only as a Constraint (not a ConstraintRepr) and its Encode
// panics, naming the ambiguity, rather than shipping unverified semantics.
type LessCardinality[V SatVar] struct {
	Larger  []AnyLit[V]
	Smaller []AnyLit[V]
}

func (c LessCardinality[V]) Encode(b Backend, vm *VarMap[V]) {
	panic(ErrLessCardinalityUnimplemented)
}
