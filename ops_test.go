package oliver

import (
	"math"
	"testing"
)

func TestHashAgreesWithEqualValues(t *testing.T) {
	pairs := [][2]Value{
		{NewNumber(1), NewNumber(1)},
		{NewString("hi"), NewString("hi")},
		{NewSymbol("x"), NewSymbol("x")},
	}
	for _, p := range pairs {
		ha, oka := Hash(p[0])
		hb, okb := Hash(p[1])
		if !oka || !okb {
			t.Fatalf("Hash(%v) or Hash(%v) reported unsupported", p[0], p[1])
		}
		if ha != hb {
			t.Errorf("Hash(%v) = %d, Hash(%v) = %d, want equal", p[0], ha, p[1], hb)
		}
	}
}

func TestHashDistinguishesDifferentValues(t *testing.T) {
	a, _ := Hash(NewNumber(1))
	b, _ := Hash(NewNumber(2))
	if a == b {
		t.Errorf("Hash(1) == Hash(2) == %d, want distinct hashes", a)
	}
}

func TestHashUnsupportedVariantsReportFalse(t *testing.T) {
	unsupported := []Value{NewExpression(), NewList(), NewLambda(NewExpression(), NewExpression())}
	for _, v := range unsupported {
		if _, ok := Hash(v); ok {
			t.Errorf("Hash(%v) reported supported, want false", v)
		}
	}
}

func TestCompareSignAgreesWithReverseArguments(t *testing.T) {
	pairs := [][2]Value{
		{NewNumber(1), NewNumber(2)},
		{NewNumber(2), NewNumber(1)},
		{NewNumber(3), NewNumber(3)},
		{NewString("a"), NewString("b")},
		{NewSymbol("x"), NewSymbol("x")},
	}
	for _, p := range pairs {
		fwd := Compare(p[0], p[1])
		rev := Compare(p[1], p[0])
		switch {
		case fwd < 0 && rev <= 0:
			t.Errorf("Compare(%v,%v)=%v but Compare(%v,%v)=%v, want opposite sign", p[0], p[1], fwd, p[1], p[0], rev)
		case fwd > 0 && rev >= 0:
			t.Errorf("Compare(%v,%v)=%v but Compare(%v,%v)=%v, want opposite sign", p[0], p[1], fwd, p[1], p[0], rev)
		case fwd == 0 && rev != 0:
			t.Errorf("Compare(%v,%v)=0 but Compare(%v,%v)=%v, want 0", p[0], p[1], p[1], p[0], rev)
		}
	}
}

func TestCompareIncomparableTypesIsNaN(t *testing.T) {
	got := Compare(NewNumber(1), NewString("1"))
	if !math.IsNaN(got) {
		t.Errorf("Compare(number, string) = %v, want NaN", got)
	}
}

func TestArithmeticOnNonNumbersIsNothing(t *testing.T) {
	got := Add(NewString("a"), NewNumber(1))
	if _, ok := got.(Nothing); !ok {
		t.Errorf("Add(string, number) = %v, want nothing", got)
	}
}

func TestGetSetOpsDispatchAcrossVariants(t *testing.T) {
	lst := NewList(NewNumber(1), NewNumber(2), NewNumber(3))
	if got := Get(lst, NewNumber(2)); Compare(got, NewNumber(2)) != 0 {
		t.Errorf("Get(list, 2) = %v, want 2", got)
	}
	updated := Set(lst, NewNumber(1), NewNumber(9))
	if got := Get(updated, NewNumber(1)); Compare(got, NewNumber(9)) != 0 {
		t.Errorf("Get(Set(list,1,9), 1) = %v, want 9", got)
	}

	exp := NewExpression(NewNumber(1), NewNumber(2))
	if got := Get(exp, NewNumber(1)); Compare(got, NewNumber(1)) != 0 {
		t.Errorf("Get(expression, 1) = %v, want 1", got)
	}
}

func TestLeadLastShiftOpsDispatchAcrossVariants(t *testing.T) {
	values := []Value{
		NewExpression(NewNumber(1), NewNumber(2)),
		NewList(NewNumber(1), NewNumber(2)),
	}
	for _, v := range values {
		if got := Lead(v); Compare(got, NewNumber(1)) != 0 {
			t.Errorf("Lead(%v) = %v, want 1", TypeTag(v), got)
		}
		if got := Last(v); Compare(got, NewNumber(2)) != 0 {
			t.Errorf("Last(%v) = %v, want 2", TypeTag(v), got)
		}
		if got := Size(ShiftLead(v)); got != 1 {
			t.Errorf("Size(ShiftLead(%v)) = %v, want 1", TypeTag(v), got)
		}
	}
}

func TestTruthyEmptyExpressionAndNothingAreFalsy(t *testing.T) {
	if Truthy(NewExpression()) {
		t.Errorf("Truthy(empty expression) = true, want false")
	}
	if Truthy(Nil) {
		t.Errorf("Truthy(nothing) = true, want false")
	}
	// PlaceLead skips Nothing, so an expression built only from Nil is empty.
	if Truthy(NewExpression(Nil)) {
		t.Errorf("Truthy(expression of only nothing) = true, want false")
	}
}

func TestStrAndReprAgreeOnNumbers(t *testing.T) {
	n := NewNumber(3)
	if got, want := Str(n), "3"; got != want {
		t.Errorf("Str(3) = %s, want %s", got, want)
	}
	if got, want := Repr(n), "3"; got != want {
		t.Errorf("Repr(3) = %s, want %s", got, want)
	}
}

func TestStrAndReprDiffOnStrings(t *testing.T) {
	s := NewString("hi")
	if got, want := Str(s), "hi"; got != want {
		t.Errorf("Str(string) = %s, want %s", got, want)
	}
	if got, want := Repr(s), `"hi"`; got != want {
		t.Errorf("Repr(string) = %s, want %s", got, want)
	}
}
