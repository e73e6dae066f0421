package satenc

// Direction controls which half of a gate-equivalence clause set gets
// emitted. A gate's full definition is a biconditional between its inputs
// and output; when a caller only ever relies on one direction of that
// biconditional, emitting the other half is wasted clauses. InToOut emits
// only "inputs imply output", OutToIn only "output implies inputs", and
// Both emits the complete biconditional.
type Direction int

const (
	InToOut Direction = iota
	OutToIn
	Both
)

// Circuit builds Tseitin-style gate clauses against a Backend, respecting a
// fixed Direction for every gate it emits.
type Circuit struct {
	backend Backend
	dir     Direction
}

// NewCircuit returns a Circuit that emits clauses to b, honoring dir.
func NewCircuit(b Backend, dir Direction) *Circuit {
	return &Circuit{backend: b, dir: dir}
}

// Equal asserts a and b denote the same truth value, subject to dir.
func (c *Circuit) Equal(a, b int32) {
	if c.dir == InToOut || c.dir == Both {
		c.backend.AddClause(-a, b)
	}
	if c.dir == OutToIn || c.dir == Both {
		c.backend.AddClause(a, -b)
	}
}

// SetZero forces a to false unconditionally.
func (c *Circuit) SetZero(a int32) {
	c.backend.AddClause(-a)
}

// AndGate defines o as the conjunction of inputs, subject to dir.
func (c *Circuit) AndGate(inputs []int32, o int32) {
	if c.dir == InToOut || c.dir == Both {
		clause := make([]int32, 0, len(inputs)+1)
		for _, i := range inputs {
			clause = append(clause, -i)
		}
		clause = append(clause, o)
		c.backend.AddClause(clause...)
	}
	if c.dir == OutToIn || c.dir == Both {
		for _, i := range inputs {
			c.backend.AddClause(-o, i)
		}
	}
}

// OrGate defines o as the disjunction of inputs, subject to dir.
func (c *Circuit) OrGate(inputs []int32, o int32) {
	if c.dir == InToOut || c.dir == Both {
		for _, i := range inputs {
			c.backend.AddClause(-i, o)
		}
	}
	if c.dir == OutToIn || c.dir == Both {
		clause := make([]int32, 0, len(inputs)+1)
		clause = append(clause, -o)
		clause = append(clause, inputs...)
		c.backend.AddClause(clause...)
	}
}

// IffGate defines o as the equivalence (XNOR) of a and b, subject to dir.
// It is the general-purpose reification gate used by constraints, such as
// Equal, that are not part of the cardinality family but still need to
// reify a definitional equality to a literal.
func (c *Circuit) IffGate(a, b, o int32) {
	if c.dir == InToOut || c.dir == Both {
		c.backend.AddClause(-a, -b, o)
		c.backend.AddClause(a, b, o)
	}
	if c.dir == OutToIn || c.dir == Both {
		c.backend.AddClause(-o, a, -b)
		c.backend.AddClause(-o, -a, b)
	}
}
