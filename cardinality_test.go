package satenc

import (
	"testing"

	"github.com/go-satenc/satenc/nativesat"
	"github.com/kr/pretty"
)

type cardVar int

// binomial computes C(n,k); used only to compute expected model counts in
// these tests (§8's universal properties are stated in terms of it).
func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	res := 1
	for i := 0; i < k; i++ {
		res = res * (n - i) / (i + 1)
	}
	return res
}

func namedLits(n int) []AnyLit[cardVar] {
	lits := make([]AnyLit[cardVar], n)
	for i := range lits {
		lits[i] = NamedLit(Pos(cardVar(i)))
	}
	return lits
}

// countModelsOver solves enc to exhaustion, blocking each observed
// assignment of lits with the negation clause of that assignment (per
// spec's exhaustive-enumeration testing methodology), and returns every
// distinct assignment seen.
func countModelsOver[V SatVar](t *testing.T, enc *Encoder[V, *nativesat.Solver], lits []AnyLit[V]) []map[V]bool {
	t.Helper()
	var models []map[V]bool
	for {
		m, ok := enc.Solve()
		if !ok {
			break
		}
		model := make(map[V]bool, len(lits))
		block := make([]int32, 0, len(lits))
		for _, l := range lits {
			val, _ := m.AnyLit(l)
			lit, isNamed := l.AsLit()
			if !isNamed {
				t.Fatalf("countModelsOver requires named literals")
			}
			model[lit.Var()] = val
			id := addAnyVar(enc.VarMap, l)
			if val {
				block = append(block, -id)
			} else {
				block = append(block, id)
			}
		}
		models = append(models, model)
		enc.Backend.AddClause(block...)
	}
	return models
}

func countTrue(m map[cardVar]bool) int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

func TestAtMostKModelCount(t *testing.T) {
	const n, k = 5, 2
	enc := NewEncoder[cardVar](nativesat.New())
	lits := namedLits(n)
	enc.AddConstraint(AtMostK[cardVar]{Lits: lits, K: k})

	models := countModelsOver(t, enc, lits)

	want := 0
	for i := 0; i <= k; i++ {
		want += binomial(n, i)
	}
	if len(models) != want {
		t.Fatalf("AtMostK{%d,%d} model count = %d, want %d\nmodels: %# v", k, n, len(models), want, pretty.Formatter(models))
	}
	for _, m := range models {
		if countTrue(m) > k {
			t.Fatalf("model %# v has more than %d true literals", pretty.Formatter(m), k)
		}
	}
}

func TestAtLeastKModelCount(t *testing.T) {
	const n, k = 5, 2
	enc := NewEncoder[cardVar](nativesat.New())
	lits := namedLits(n)
	enc.AddConstraint(AtLeastK[cardVar]{Lits: lits, K: k})

	models := countModelsOver(t, enc, lits)

	want := 0
	for i := k; i <= n; i++ {
		want += binomial(n, i)
	}
	if len(models) != want {
		t.Fatalf("AtLeastK{%d,%d} model count = %d, want %d", k, n, len(models), want)
	}
	for _, m := range models {
		if countTrue(m) < k {
			t.Fatalf("model %v has fewer than %d true literals", m, k)
		}
	}
}

func TestExactlyKModelCount(t *testing.T) {
	const n, k = 5, 2
	enc := NewEncoder[cardVar](nativesat.New())
	lits := namedLits(n)
	enc.AddConstraint(ExactlyK[cardVar]{Lits: lits, K: k})

	models := countModelsOver(t, enc, lits)

	want := binomial(n, k)
	if len(models) != want {
		t.Fatalf("ExactlyK{%d,%d} model count = %d, want %d", k, n, len(models), want)
	}
	for _, m := range models {
		if got := countTrue(m); got != k {
			t.Fatalf("model %v has %d true literals, want %d", m, got, k)
		}
	}
}

func TestSameCardinalityModelCount(t *testing.T) {
	const n = 3
	enc := NewEncoder[cardVar](nativesat.New())
	g1 := []AnyLit[cardVar]{NamedLit(Pos(cardVar(0))), NamedLit(Pos(cardVar(1))), NamedLit(Pos(cardVar(2)))}
	g2 := []AnyLit[cardVar]{NamedLit(Pos(cardVar(10))), NamedLit(Pos(cardVar(11))), NamedLit(Pos(cardVar(12)))}
	enc.AddConstraint(NewSameCardinality[cardVar]().AddLits(g1).AddLits(g2))

	all := append(append([]AnyLit[cardVar]{}, g1...), g2...)
	models := countModelsOver(t, enc, all)

	want := 0
	for i := 0; i <= n; i++ {
		want += binomial(n, i) * binomial(n, i)
	}
	if len(models) != want {
		t.Fatalf("SameCardinality model count = %d, want %d", len(models), want)
	}
	for _, m := range models {
		c1, c2 := 0, 0
		for _, l := range g1 {
			v, _ := l.AsLit()
			if m[v.Var()] {
				c1++
			}
		}
		for _, l := range g2 {
			v, _ := l.AsLit()
			if m[v.Var()] {
				c2++
			}
		}
		if c1 != c2 {
			t.Fatalf("model %v has mismatched group cardinalities %d != %d", m, c1, c2)
		}
	}
}

func TestSameCardinalityMixedSizes(t *testing.T) {
	enc := NewEncoder[cardVar](nativesat.New())
	g1 := []AnyLit[cardVar]{NamedLit(Pos(cardVar(0))), NamedLit(Pos(cardVar(1)))}
	g2 := []AnyLit[cardVar]{NamedLit(Pos(cardVar(10))), NamedLit(Pos(cardVar(11))), NamedLit(Pos(cardVar(12)))}
	enc.AddConstraint(NewSameCardinality[cardVar]().AddLits(g1).AddLits(g2))

	all := append(append([]AnyLit[cardVar]{}, g1...), g2...)
	models := countModelsOver(t, enc, all)

	mu := 2 // min(len(g1), len(g2))
	want := 0
	for i := 0; i <= mu; i++ {
		want += binomial(len(g1), i) * binomial(len(g2), i)
	}
	if len(models) != want {
		t.Fatalf("SameCardinality (mixed sizes) model count = %d, want %d", len(models), want)
	}
}

// --- End-to-end scenarios from spec.md §8 ---

func TestScenarioAtMost0Trivially(t *testing.T) {
	enc := NewEncoder[cardVar](nativesat.New())
	lits := namedLits(3)
	enc.AddConstraint(AtMostK[cardVar]{Lits: lits, K: 0})

	models := countModelsOver(t, enc, lits)
	if len(models) != 1 {
		t.Fatalf("AtMost-0 model count = %d, want 1", len(models))
	}
	for _, l := range lits {
		v, _ := l.AsLit()
		if models[0][v.Var()] {
			t.Fatalf("AtMost-0 model has a true literal: %v", models[0])
		}
	}
}

func TestScenarioAtMost1Of3(t *testing.T) {
	enc := NewEncoder[cardVar](nativesat.New())
	lits := namedLits(3)
	enc.AddConstraint(AtMostK[cardVar]{Lits: lits, K: 1})

	models := countModelsOver(t, enc, lits)
	if len(models) != 4 {
		t.Fatalf("AtMost-1-of-3 model count = %d, want 4", len(models))
	}
}

func TestScenarioExactly1Of3(t *testing.T) {
	enc := NewEncoder[cardVar](nativesat.New())
	lits := namedLits(3)
	enc.AddConstraint(ExactlyK[cardVar]{Lits: lits, K: 1})

	models := countModelsOver(t, enc, lits)
	if len(models) != 3 {
		t.Fatalf("Exactly-1-of-3 model count = %d, want 3", len(models))
	}
	for _, m := range models {
		if countTrue(m) != 1 {
			t.Fatalf("model %v does not have exactly one positive", m)
		}
	}
}

func TestScenarioSameCardinalityOfTwoPairs(t *testing.T) {
	enc := NewEncoder[cardVar](nativesat.New())
	g1 := []AnyLit[cardVar]{NamedLit(Pos(cardVar(0))), NamedLit(Pos(cardVar(1)))}
	g2 := []AnyLit[cardVar]{NamedLit(Pos(cardVar(2))), NamedLit(Pos(cardVar(3)))}
	enc.AddConstraint(NewSameCardinality[cardVar]().AddLits(g1).AddLits(g2))

	all := append(append([]AnyLit[cardVar]{}, g1...), g2...)
	models := countModelsOver(t, enc, all)
	if len(models) != 6 {
		t.Fatalf("SameCardinality({a,b},{c,d}) model count = %d, want 6", len(models))
	}
}

func TestScenarioReificationComposition(t *testing.T) {
	enc := NewEncoder[cardVar](nativesat.New())
	lits := namedLits(3)
	r1 := enc.AddConstraintEqualsRepr(AtLeastK[cardVar]{Lits: lits, K: 2})
	enc.AddConstraint(r1)

	models := countModelsOver(t, enc, lits)
	want := binomial(3, 2) + binomial(3, 3)
	if len(models) != want {
		t.Fatalf("reification composition model count = %d, want %d", len(models), want)
	}
	for _, m := range models {
		if countTrue(m) < 2 {
			t.Fatalf("model %v has fewer than 2 true literals", m)
		}
	}
}

func TestScenarioCrossConstraintAtLeastZero(t *testing.T) {
	const n = 5
	enc := NewEncoder[cardVar](nativesat.New())
	inputs := namedLits(n)
	shadows := make([]AnyLit[cardVar], n)
	for i := range shadows {
		shadows[i] = NamedLit(Pos(cardVar(100 + i)))
		enc.AddConstraint(Equal[cardVar]{Lits: []AnyLit[cardVar]{inputs[i], shadows[i]}})
	}
	enc.AddConstraint(AtLeastK[cardVar]{Lits: inputs, K: 0})

	models := countModelsOver(t, enc, inputs)
	if len(models) != 1<<n {
		t.Fatalf("cross-constraint AtLeast-0 model count = %d, want %d", len(models), 1<<n)
	}
}
