package satenc

import "fmt"

// SatVar is the trait bound required of a user-defined symbolic variable.
// comparable stands in for the hashing-plus-equality requirement; display
// falls back to fmt.Sprintf("%v", v) unless V also implements
// fmt.Stringer, which is checked opportunistically via a type assertion.
type SatVar interface {
	comparable
}

// Lit is a symbolic variable carrying an explicit polarity: Pos(v) and
// Neg(v) denote the same underlying variable with opposite polarity.
type Lit[V SatVar] struct {
	v   V
	neg bool
}

// Pos builds a positive literal over v.
func Pos[V SatVar](v V) Lit[V] { return Lit[V]{v: v} }

// Neg builds a negative literal over v.
func Neg[V SatVar](v V) Lit[V] { return Lit[V]{v: v, neg: true} }

// Var returns the underlying variable, discarding polarity.
func (l Lit[V]) Var() V { return l.v }

// IsPos reports whether l is a positive literal.
func (l Lit[V]) IsPos() bool { return !l.neg }

// IsNeg reports whether l is a negative literal.
func (l Lit[V]) IsNeg() bool { return l.neg }

// Not flips the polarity of l.
func (l Lit[V]) Not() Lit[V] { return Lit[V]{v: l.v, neg: !l.neg} }

func (l Lit[V]) String() string {
	s := stringOf(l.v)
	if l.neg {
		return "¬" + s
	}
	return s
}

func stringOf(v interface{}) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}

// AnyLit is either a symbolic Lit or an anonymous solver-internal literal:
// a nonzero signed integer in DIMACS convention (variable = |i|, polarity =
// sign(i)). It is the type produced by Encoder.AddConstraintImpliesRepr and
// Encoder.AddConstraintEqualsRepr so that a repr can be fed back into
// further constraints alongside ordinary named literals.
type AnyLit[V SatVar] struct {
	lit    Lit[V]
	anon   int32
	isAnon bool
}

// NamedLit wraps a symbolic Lit as an AnyLit.
func NamedLit[V SatVar](l Lit[V]) AnyLit[V] { return AnyLit[V]{lit: l} }

// AnonLit wraps a raw signed solver literal as an AnyLit.
func AnonLit[V SatVar](i int32) AnyLit[V] {
	if i == 0 {
		panic("satenc: anonymous literal must be nonzero")
	}
	return AnyLit[V]{anon: i, isAnon: true}
}

// Not flips the polarity of a, in either arm of the union.
func (a AnyLit[V]) Not() AnyLit[V] {
	if a.isAnon {
		return AnyLit[V]{anon: -a.anon, isAnon: true}
	}
	return AnyLit[V]{lit: a.lit.Not()}
}

// IsAnon reports whether a is an anonymous solver literal.
func (a AnyLit[V]) IsAnon() bool { return a.isAnon }

// AsLit returns the wrapped symbolic literal, and false if a is anonymous.
func (a AnyLit[V]) AsLit() (Lit[V], bool) { return a.lit, !a.isAnon }

// AsAnon returns the wrapped signed integer, and false if a is named.
func (a AnyLit[V]) AsAnon() (int32, bool) { return a.anon, a.isAnon }

func (a AnyLit[V]) String() string {
	if a.isAnon {
		return fmt.Sprintf("anon(%d)", a.anon)
	}
	return a.lit.String()
}
