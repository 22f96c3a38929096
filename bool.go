package oliver

import "math"

// Boolean is a fuzzy triple: a term and a weight, both conventionally in
// [0,1]. The value is true iff term is at least weight. An undefined
// boolean has NaN in both fields.
type Boolean struct {
	Term   float64
	Weight float64
}

func (*Boolean) isValue() {}

// NewBoolean builds a fuzzy boolean from a term and weight.
func NewBoolean(term, weight float64) *Boolean {
	return &Boolean{Term: term, Weight: weight}
}

// True and False are the crisp boolean singletons used by comparison and
// truthiness-coercion operators. They are not the only way to construct a
// truthy or falsy Boolean; any term/weight pair with term >= weight is
// truthy.
var (
	True  = &Boolean{Term: 1, Weight: 0}
	False = &Boolean{Term: 0, Weight: 1}
)

// UndefinedBoolean is the boolean with NaN term and weight, used when a
// comparison or logical operation has no meaningful crisp result.
var UndefinedBoolean = &Boolean{Term: math.NaN(), Weight: math.NaN()}

func (b *Boolean) isUndefined() bool {
	return math.IsNaN(b.Term) || math.IsNaN(b.Weight)
}

func (b *Boolean) String() string {
	if b.isUndefined() {
		return "undef"
	}
	if b.Term >= b.Weight {
		return "true"
	}
	return "false"
}
