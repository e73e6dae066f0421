package satenc

// VarMap is the bijection between user-defined symbolic variables and the
// positive-integer solver variables a Backend understands. Every symbolic
// variable is assigned exactly one solver variable the first time it is
// seen; anonymous (unnamed) solver variables can also be allocated directly
// for use as representatives of reified constraints.
type VarMap[V SatVar] struct {
	named map[V]int32
	vars  map[int32]V
	order []int32
	next  int32
}

// NewVarMap returns an empty VarMap. Solver variable numbering starts at 1,
// matching the DIMACS convention that 0 terminates a clause.
func NewVarMap[V SatVar]() *VarMap[V] {
	return &VarMap[V]{
		named: make(map[V]int32),
		vars:  make(map[int32]V),
		next:  1,
	}
}

func (vm *VarMap[V]) allocate() int32 {
	id := vm.next
	vm.next++
	vm.order = append(vm.order, id)
	return id
}

// AddVar returns the signed solver literal for l, allocating a fresh solver
// variable the first time l's underlying variable is seen.
func (vm *VarMap[V]) AddVar(l Lit[V]) int32 {
	id, ok := vm.named[l.v]
	if !ok {
		id = vm.allocate()
		vm.named[l.v] = id
		vm.vars[id] = l.v
	}
	if l.neg {
		return -id
	}
	return id
}

// NewVar allocates a fresh anonymous solver variable, not associated with
// any symbolic V.
func (vm *VarMap[V]) NewVar() int32 {
	return vm.allocate()
}

// GetVar looks up the signed solver literal for l without allocating one.
// It returns false if l's underlying variable has never been passed to
// AddVar.
func (vm *VarMap[V]) GetVar(l Lit[V]) (int32, bool) {
	id, ok := vm.named[l.v]
	if !ok {
		return 0, false
	}
	if l.neg {
		return -id, true
	}
	return id, true
}

// Lookup maps a signed solver literal back to the symbolic Lit it was
// allocated for. It returns false if i's variable is anonymous (never
// passed through AddVar).
func (vm *VarMap[V]) Lookup(i int32) (Lit[V], bool) {
	id, neg := i, false
	if id < 0 {
		id, neg = -id, true
	}
	v, ok := vm.vars[id]
	if !ok {
		return Lit[V]{}, false
	}
	if neg {
		return Neg(v), true
	}
	return Pos(v), true
}

// LookupVar is Lookup restricted to the bare underlying variable, ignoring
// polarity; id must be a positive solver variable number.
func (vm *VarMap[V]) LookupVar(id int32) (V, bool) {
	v, ok := vm.vars[id]
	return v, ok
}

// IterInternalVars returns every solver variable ever allocated (named or
// anonymous), in allocation order. This is the enumeration Encoder.Solve
// walks to build a Model.
func (vm *VarMap[V]) IterInternalVars() []int32 {
	out := make([]int32, len(vm.order))
	copy(out, vm.order)
	return out
}

func addAnyVar[V SatVar](vm *VarMap[V], l AnyLit[V]) int32 {
	if l.isAnon {
		return l.anon
	}
	return vm.AddVar(l.lit)
}

func addAnyVars[V SatVar](vm *VarMap[V], ls []AnyLit[V]) []int32 {
	out := make([]int32, len(ls))
	for i, l := range ls {
		out[i] = addAnyVar(vm, l)
	}
	return out
}
