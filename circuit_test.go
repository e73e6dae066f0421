package satenc

import (
	"reflect"
	"testing"
)

// recordingBackend is a Backend that just remembers every clause it was
// given, for exact-clause-set assertions against the Circuit gate emitters.
type recordingBackend struct {
	clauses [][]int32
}

func (r *recordingBackend) AddClause(lits ...int32) {
	clause := make([]int32, len(lits))
	copy(clause, lits)
	r.clauses = append(r.clauses, clause)
}

func TestCircuitEqualDirections(t *testing.T) {
	cases := []struct {
		dir  Direction
		want [][]int32
	}{
		{InToOut, [][]int32{{-1, 2}}},
		{OutToIn, [][]int32{{1, -2}}},
		{Both, [][]int32{{-1, 2}, {1, -2}}},
	}
	for _, c := range cases {
		rb := &recordingBackend{}
		NewCircuit(rb, c.dir).Equal(1, 2)
		if !reflect.DeepEqual(rb.clauses, c.want) {
			t.Errorf("Equal dir=%v clauses=%v, want %v", c.dir, rb.clauses, c.want)
		}
	}
}

func TestCircuitSetZero(t *testing.T) {
	rb := &recordingBackend{}
	NewCircuit(rb, InToOut).SetZero(3)
	want := [][]int32{{-3}}
	if !reflect.DeepEqual(rb.clauses, want) {
		t.Errorf("SetZero clauses=%v, want %v", rb.clauses, want)
	}
}

func TestCircuitAndGateDirections(t *testing.T) {
	cases := []struct {
		dir  Direction
		want [][]int32
	}{
		{InToOut, [][]int32{{-1, -2, 3}}},
		{OutToIn, [][]int32{{-3, 1}, {-3, 2}}},
		{Both, [][]int32{{-1, -2, 3}, {-3, 1}, {-3, 2}}},
	}
	for _, c := range cases {
		rb := &recordingBackend{}
		NewCircuit(rb, c.dir).AndGate([]int32{1, 2}, 3)
		if !reflect.DeepEqual(rb.clauses, c.want) {
			t.Errorf("AndGate dir=%v clauses=%v, want %v", c.dir, rb.clauses, c.want)
		}
	}
}

func TestCircuitOrGateDirections(t *testing.T) {
	cases := []struct {
		dir  Direction
		want [][]int32
	}{
		{InToOut, [][]int32{{-1, 3}, {-2, 3}}},
		{OutToIn, [][]int32{{-3, 1, 2}}},
		{Both, [][]int32{{-1, 3}, {-2, 3}, {-3, 1, 2}}},
	}
	for _, c := range cases {
		rb := &recordingBackend{}
		NewCircuit(rb, c.dir).OrGate([]int32{1, 2}, 3)
		if !reflect.DeepEqual(rb.clauses, c.want) {
			t.Errorf("OrGate dir=%v clauses=%v, want %v", c.dir, rb.clauses, c.want)
		}
	}
}

func TestCircuitIffGateBothIsFourClauses(t *testing.T) {
	rb := &recordingBackend{}
	NewCircuit(rb, Both).IffGate(1, 2, 3)
	want := [][]int32{
		{-1, -2, 3},
		{1, 2, 3},
		{-3, 1, -2},
		{-3, -1, 2},
	}
	if !reflect.DeepEqual(rb.clauses, want) {
		t.Errorf("IffGate(Both) clauses=%v, want %v", rb.clauses, want)
	}
}

// TestCircuitIffGateSemantics checks the truth table directly, independent
// of exact clause shape: o should hold iff a and b agree.
func TestCircuitIffGateSemantics(t *testing.T) {
	rb := &recordingBackend{}
	NewCircuit(rb, Both).IffGate(1, 2, 3)

	for _, assn := range [][3]bool{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, true},
	} {
		a, b, o := assn[0], assn[1], assn[2]
		for _, clause := range rb.clauses {
			if !clauseSatisfied(clause, map[int32]bool{1: a, 2: b, 3: o}) {
				t.Errorf("a=%v b=%v o=%v violates clause %v", a, b, o, clause)
			}
		}
	}
}

func clauseSatisfied(clause []int32, assn map[int32]bool) bool {
	for _, lit := range clause {
		v := lit
		want := true
		if v < 0 {
			v, want = -v, false
		}
		if assn[v] == want {
			return true
		}
	}
	return false
}
