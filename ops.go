package oliver

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// This file holds the semantic operations every Value variant must answer,
// per spec.md §3. Each is a single type switch over the closed set of
// concrete types, rather than a virtual method distributed across eleven
// files: this is the "closed tagged variant" remapping recorded in
// DESIGN.md, and it is what lets a reviewer check that a new operation
// handles every variant by reading one function.

// Str renders the human-readable form of v.
func Str(v Value) string {
	switch t := v.(type) {
	case Nothing:
		return t.String()
	case *Boolean:
		return t.String()
	case *Number:
		return t.String()
	case *String:
		return t.String()
	case *Symbol:
		return t.String()
	case *OpCall:
		return t.String()
	case *ErrorValue:
		return t.String()
	case *Expression:
		return t.String()
	case *Scope:
		return t.String()
	case *List:
		return t.String()
	case *Lambda:
		return t.String()
	default:
		panic("oliver: value of unregistered type in Str")
	}
}

// Repr renders the round-trippable form of v where one exists.
func Repr(v Value) string {
	switch t := v.(type) {
	case *String:
		return t.Repr()
	case *Number:
		return t.Repr()
	case *Expression:
		return t.Repr()
	case *Scope:
		return t.Repr()
	case *List:
		return t.Repr()
	default:
		return Str(v)
	}
}

// Size returns the element count of a sized variant (expression, scope,
// list), or 0 for anything else.
func Size(v Value) int {
	switch t := v.(type) {
	case *Expression:
		return t.Size()
	case *Scope:
		return t.Size()
	case *List:
		return t.Size()
	default:
		return 0
	}
}

// Lead returns the first element of a sequence-like variant, or Nil.
func Lead(v Value) Value {
	switch t := v.(type) {
	case *Expression:
		return t.Lead()
	case *Scope:
		return t.Lead()
	case *List:
		return t.Lead()
	case *Lambda:
		return t.Lead()
	default:
		return Nil
	}
}

// Last returns the final element of a sequence-like variant, or Nil.
func Last(v Value) Value {
	switch t := v.(type) {
	case *Expression:
		return t.Last()
	case *Scope:
		return t.Last()
	case *List:
		return t.Last()
	case *Lambda:
		return t.Last()
	default:
		return Nil
	}
}

// PlaceLead returns v with x prepended, or v unchanged if x is Nil or v is
// not a sequence-like variant.
func PlaceLead(v Value, x Value) Value {
	switch t := v.(type) {
	case *Expression:
		return t.PlaceLead(x)
	case *Scope:
		return &Scope{Expression: *t.Expression.PlaceLead(x)}
	case *List:
		return t.PlaceLead(x)
	default:
		return v
	}
}

// PlaceLast returns v with x appended, or v unchanged if x is Nil or v is
// not a sequence-like variant.
func PlaceLast(v Value, x Value) Value {
	switch t := v.(type) {
	case *Expression:
		return t.PlaceLast(x)
	case *Scope:
		return &Scope{Expression: *t.Expression.PlaceLast(x)}
	case *List:
		return t.PlaceLast(x)
	default:
		return v
	}
}

// ShiftLead returns v with its first element removed.
func ShiftLead(v Value) Value {
	switch t := v.(type) {
	case *Expression:
		return t.ShiftLead()
	case *Scope:
		return &Scope{Expression: *t.Expression.ShiftLead()}
	case *List:
		return t.ShiftLead()
	default:
		return v
	}
}

// ShiftLast returns v with its final element removed.
func ShiftLast(v Value) Value {
	switch t := v.(type) {
	case *Expression:
		return t.ShiftLast()
	case *Scope:
		return &Scope{Expression: *t.Expression.ShiftLast()}
	case *List:
		return t.ShiftLast()
	default:
		return v
	}
}

// Reverse returns v with its elements reversed.
func Reverse(v Value) Value {
	switch t := v.(type) {
	case *Expression:
		return t.Reverse()
	case *Scope:
		return &Scope{Expression: *t.Expression.Reverse()}
	case *List:
		return t.Reverse()
	default:
		return v
	}
}

// Get resolves key against v: an ordinal Number for expressions, scopes,
// and lists, or a symbol/string name for a lambda's capture map.
func Get(v Value, key Value) Value {
	switch t := v.(type) {
	case *Expression:
		if n, ok := key.(*Number); ok {
			return t.Get(int(n.Re))
		}
	case *Scope:
		if n, ok := key.(*Number); ok {
			return t.Expression.Get(int(n.Re))
		}
	case *List:
		if n, ok := key.(*Number); ok {
			return t.Get(int(n.Re))
		}
	case *Lambda:
		if name, ok := nameOf(key); ok {
			if val, ok := t.Captured[name]; ok {
				return val
			}
		}
	}
	return Nil
}

// Set resolves key against v the same way Get does, returning a new value
// with the given element or capture replaced.
func Set(v Value, key Value, val Value) Value {
	switch t := v.(type) {
	case *Expression:
		if n, ok := key.(*Number); ok {
			return t.Set(int(n.Re), val)
		}
	case *Scope:
		if n, ok := key.(*Number); ok {
			return &Scope{Expression: *t.Expression.Set(int(n.Re), val)}
		}
	case *List:
		if n, ok := key.(*Number); ok {
			return t.Set(int(n.Re), val)
		}
	case *Lambda:
		if name, ok := nameOf(key); ok {
			return t.withCapture(map[string]Value{name: val})
		}
	}
	return v
}

func nameOf(v Value) (string, bool) {
	switch t := v.(type) {
	case *Symbol:
		return t.Name, true
	case *String:
		return t.Value, true
	default:
		return "", false
	}
}

// And, Or, Xor, Not implement fuzzy logic over the term/weight pairs
// produced by asBoolean, following the standard De Morgan algebra: AND
// takes the pointwise min of terms and max of weights, OR the reverse, NOT
// complements both term and weight, and XOR is defined from AND/OR/NOT as
// usual. Any
// non-boolean operand is first coerced crisply via Truthy.
func And(a, b Value) Value {
	x, y := asBoolean(a), asBoolean(b)
	return &Boolean{Term: math.Min(x.Term, y.Term), Weight: math.Max(x.Weight, y.Weight)}
}

func Or(a, b Value) Value {
	x, y := asBoolean(a), asBoolean(b)
	return &Boolean{Term: math.Max(x.Term, y.Term), Weight: math.Min(x.Weight, y.Weight)}
}

func Not(a Value) Value {
	x := asBoolean(a)
	return &Boolean{Term: 1 - x.Term, Weight: 1 - x.Weight}
}

func Xor(a, b Value) Value {
	notA, notB := Not(a), Not(b)
	return Or(And(a, notB), And(notA, b))
}

// Arithmetic operators. Every one returns a type_error, represented as
// Nil, when either operand is not a Number: spec.md §7 specifies that
// type_error is produced implicitly rather than as an error value for
// arithmetic (a NaN number is used when an operation is defined for
// Number but the inputs make it meaningless; Nil is used when the
// operation isn't defined at all for the operand's type).
func Add(a, b Value) Value { return numericOp(a, b, numAdd) }
func Sub(a, b Value) Value { return numericOp(a, b, numSub) }
func Mul(a, b Value) Value { return numericOp(a, b, numMul) }
func Div(a, b Value) Value { return numericOp(a, b, numDiv) }
func Mod(a, b Value) Value { return numericOp(a, b, numMod) }
func FloorDiv(a, b Value) Value { return numericOp(a, b, numFloorDiv) }
func Rem(a, b Value) Value { return numericOp(a, b, numRem) }
func Pow(a, b Value) Value { return numericOp(a, b, numPow) }

func numericOp(a, b Value, f func(a, b *Number) *Number) Value {
	an, aok := a.(*Number)
	bn, bok := b.(*Number)
	if !aok || !bok {
		return Nil
	}
	return f(an, bn)
}

// Neg returns the arithmetic negation of a Number, or Nil for any other
// variant.
func Neg(a Value) Value {
	n, ok := a.(*Number)
	if !ok {
		return Nil
	}
	return numNeg(n)
}

// Compare returns 0 iff a and b are structurally equal, a negative or
// positive number giving their relative order, or NaN when no meaningful
// order exists between them.
func Compare(a, b Value) float64 {
	switch x := a.(type) {
	case Nothing:
		if _, ok := b.(Nothing); ok {
			return 0
		}
		return math.NaN()
	case *Number:
		y, ok := b.(*Number)
		if !ok {
			return math.NaN()
		}
		return numCompare(x, y)
	case *String:
		y, ok := b.(*String)
		if !ok {
			return math.NaN()
		}
		return compareStrings(x.Value, y.Value)
	case *Symbol:
		y, ok := b.(*Symbol)
		if !ok {
			return math.NaN()
		}
		return compareStrings(x.Name, y.Name)
	case *Boolean:
		y, ok := b.(*Boolean)
		if !ok {
			return math.NaN()
		}
		return compareBooleans(x, y)
	case *ErrorValue:
		y, ok := b.(*ErrorValue)
		if !ok {
			return math.NaN()
		}
		return compareStrings(x.Kind, y.Kind)
	case *OpCall:
		y, ok := b.(*OpCall)
		if !ok {
			return math.NaN()
		}
		return compareInts(int(x.Code), int(y.Code))
	case *Expression:
		y, ok := b.(*Expression)
		if !ok {
			return math.NaN()
		}
		return compareSequences(x.values(), y.values())
	case *Scope:
		y, ok := b.(*Scope)
		if !ok {
			return math.NaN()
		}
		return compareSequences(x.values(), y.values())
	case *List:
		y, ok := b.(*List)
		if !ok {
			return math.NaN()
		}
		return compareSequences(x.Items, y.Items)
	case *Lambda:
		if x == b {
			return 0
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

func compareStrings(a, b string) float64 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInts(a, b int) float64 {
	return float64(a - b)
}

func compareBooleans(a, b *Boolean) float64 {
	if a.Term == b.Term && a.Weight == b.Weight {
		return 0
	}
	da, db := a.Term-a.Weight, b.Term-b.Weight
	switch {
	case da > db:
		return 1
	case da < db:
		return -1
	default:
		return math.NaN()
	}
}

// Hash returns a structural hash for the variants that have a stable
// notion of one: numbers, strings, symbols, and booleans. The second
// result is false for every other variant (expressions, lists, lambdas,
// and the rest), which have no meaningful hash identity independent of
// their own equality rules.
func Hash(v Value) (uint64, bool) {
	switch t := v.(type) {
	case *Number:
		h := fnv.New64a()
		var buf [16]byte
		binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(t.Re))
		binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(t.Im))
		h.Write(buf[:])
		return h.Sum64(), true
	case *String:
		h := fnv.New64a()
		h.Write([]byte(t.Value))
		return h.Sum64(), true
	case *Symbol:
		h := fnv.New64a()
		h.Write([]byte(t.Name))
		return h.Sum64(), true
	case *Boolean:
		h := fnv.New64a()
		var buf [16]byte
		binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(t.Term))
		binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(t.Weight))
		h.Write(buf[:])
		return h.Sum64(), true
	default:
		return 0, false
	}
}

func compareSequences(a, b []Value) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		c := Compare(a[i], b[i])
		if math.IsNaN(c) || c != 0 {
			return c
		}
	}
	return compareInts(len(a), len(b))
}
