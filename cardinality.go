package satenc

// encodeCounter builds the sequential-counter tableau for lits: a sequence
// of rows s[0..n), each of width k, where s[i][j] means "at least j+1 of
// lits[0..=i] are true". Row 0 is seeded from lits[0] (position 0 tied to
// lits[0], the rest forced false); each subsequent row is derived from the
// previous row and the next literal via an OR gate for position 0 and an
// AND-then-OR chain for positions 1..k-1.
//
// The AND-auxiliary variable introduced between rows always uses Both
// direction regardless of dir: it is a definitional equality, not a
// one-sided implication, and callers passing InToOut or OutToIn for the
// surrounding gates rely on this for correct monotonicity of the counter.
//
// If outOverride is non-nil, the final row is written into it instead of
// being freshly allocated — this lets SameCardinality tie multiple
// independent counters to one shared output row. outOverride must have
// length >= k.
func encodeCounter[V SatVar](vm *VarMap[V], b Backend, lits []AnyLit[V], k int, dir Direction, outOverride []int32) []int32 {
	if k <= 0 {
		panic("satenc: cardinality k must be >= 1")
	}
	if len(lits) == 0 {
		panic("satenc: cardinality constraint requires at least one literal")
	}
	if outOverride != nil && len(outOverride) < k {
		panic("satenc: outOverride shorter than k")
	}

	vars := addAnyVars(vm, lits)
	n := len(vars)

	circuit := NewCircuit(b, dir)
	andCircuit := NewCircuit(b, Both)

	var prevS []int32
	if n == 1 && outOverride != nil {
		prevS = outOverride
	} else {
		prevS = make([]int32, k)
		for j := range prevS {
			prevS[j] = vm.NewVar()
		}
	}
	circuit.Equal(vars[0], prevS[0])
	for _, s := range prevS[1:k] {
		circuit.SetZero(s)
	}

	for i := 1; i < n; i++ {
		v := vars[i]

		var newS []int32
		if i == n-1 && outOverride != nil {
			newS = outOverride
		} else {
			newS = make([]int32, k)
			for j := range newS {
				newS[j] = vm.NewVar()
			}
		}

		circuit.OrGate([]int32{v, prevS[0]}, newS[0])
		for j := 1; j < k; j++ {
			a := vm.NewVar()
			andCircuit.AndGate([]int32{v, prevS[j-1]}, a)
			circuit.OrGate([]int32{a, prevS[j]}, newS[j])
		}

		prevS = newS
	}
	return prevS
}

// AtMostK asserts that at most K of Lits are true.
type AtMostK[V SatVar] struct {
	Lits []AnyLit[V]
	K    int
}

func (c AtMostK[V]) Encode(b Backend, vm *VarMap[V]) {
	if c.K == 0 {
		for _, l := range c.Lits {
			b.AddClause(-addAnyVar(vm, l))
		}
		return
	}
	out := encodeCounter(vm, b, c.Lits, c.K+1, InToOut, nil)
	b.AddClause(-out[len(out)-1])
}

func (c AtMostK[V]) EncodeImpliesRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	if c.K == 0 {
		r := reprOrNew(vm, repr)
		clause := make([]int32, 0, len(c.Lits)+1)
		for _, l := range c.Lits {
			clause = append(clause, addAnyVar(vm, l))
		}
		clause = append(clause, r)
		b.AddClause(clause...)
		return r
	}
	out := encodeCounter(vm, b, c.Lits, c.K+1, OutToIn, nil)
	rNeg := out[len(out)-1]
	if repr == nil {
		return -rNeg
	}
	r := *repr
	b.AddClause(rNeg, r)
	return r
}

func (c AtMostK[V]) EncodeEqualsRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	if c.K == 0 {
		r := reprOrNew(vm, repr)
		clause := make([]int32, 0, len(c.Lits)+1)
		for _, l := range c.Lits {
			v := addAnyVar(vm, l)
			clause = append(clause, v)
			b.AddClause(-v, -r)
		}
		clause = append(clause, r)
		b.AddClause(clause...)
		return r
	}
	out := encodeCounter(vm, b, c.Lits, c.K+1, Both, nil)
	rNeg := out[len(out)-1]
	r := reprOrNew(vm, repr)
	b.AddClause(rNeg, r)
	b.AddClause(-rNeg, -r)
	return r
}

// AtLeastK asserts that at least K of Lits are true.
type AtLeastK[V SatVar] struct {
	Lits []AnyLit[V]
	K    int
}

func (c AtLeastK[V]) Encode(b Backend, vm *VarMap[V]) {
	if c.K == 0 {
		return
	}
	out := encodeCounter(vm, b, c.Lits, c.K, OutToIn, nil)
	b.AddClause(out[c.K-1])
}

func (c AtLeastK[V]) EncodeImpliesRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	if c.K == 0 {
		r := reprOrNew(vm, repr)
		b.AddClause(r)
		return r
	}
	out := encodeCounter(vm, b, c.Lits, c.K, InToOut, nil)
	last := out[c.K-1]
	if repr == nil {
		return last
	}
	r := *repr
	b.AddClause(-last, r)
	return r
}

func (c AtLeastK[V]) EncodeEqualsRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	if c.K == 0 {
		r := reprOrNew(vm, repr)
		b.AddClause(r)
		return r
	}
	out := encodeCounter(vm, b, c.Lits, c.K, Both, nil)
	last := out[c.K-1]
	r := reprOrNew(vm, repr)
	b.AddClause(-last, r)
	b.AddClause(last, -r)
	return r
}

// ExactlyK asserts that exactly K of Lits are true.
type ExactlyK[V SatVar] struct {
	Lits []AnyLit[V]
	K    int
}

func (c ExactlyK[V]) Encode(b Backend, vm *VarMap[V]) {
	if c.K == 0 {
		for _, l := range c.Lits {
			b.AddClause(-addAnyVar(vm, l))
		}
		return
	}
	out := encodeCounter(vm, b, c.Lits, c.K+1, Both, nil)
	b.AddClause(out[len(out)-2])
	b.AddClause(-out[len(out)-1])
}

func (c ExactlyK[V]) EncodeImpliesRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	r := reprOrNew(vm, repr)
	if c.K == 0 {
		clause := make([]int32, 0, len(c.Lits)+1)
		for _, l := range c.Lits {
			clause = append(clause, addAnyVar(vm, l))
		}
		clause = append(clause, r)
		b.AddClause(clause...)
		return r
	}
	out := encodeCounter(vm, b, c.Lits, c.K+1, Both, nil)
	atLeast := out[len(out)-2]
	atMostNot := out[len(out)-1]
	b.AddClause(-atLeast, atMostNot, r)
	return r
}

func (c ExactlyK[V]) EncodeEqualsRepr(repr *int32, b Backend, vm *VarMap[V]) int32 {
	r := reprOrNew(vm, repr)
	if c.K == 0 {
		clause := make([]int32, 0, len(c.Lits)+1)
		for _, l := range c.Lits {
			v := addAnyVar(vm, l)
			clause = append(clause, v)
			b.AddClause(-v, -r)
		}
		clause = append(clause, r)
		b.AddClause(clause...)
		return r
	}
	out := encodeCounter(vm, b, c.Lits, c.K+1, Both, nil)
	atLeast := out[len(out)-2]
	atMostNot := out[len(out)-1]
	b.AddClause(-atLeast, atMostNot, r)
	b.AddClause(atLeast, -r)
	b.AddClause(-atMostNot, -r)
	return r
}
