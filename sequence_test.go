package oliver

import "testing"

func TestPlaceLeadShiftLeadRoundTrip(t *testing.T) {
	x := NewExpression(NewNumber(1), NewNumber(2))
	v := NewNumber(9)
	placed := x.PlaceLead(v)
	if got := placed.ShiftLead(); Compare(got.Lead(), x.Lead()) != 0 || got.Size() != x.Size() {
		t.Errorf("shift_lead(place_lead(x,v)) != x: got %s, want %s", got, x)
	}
	if got := placed.Lead(); Compare(got, v) != 0 {
		t.Errorf("lead(place_lead(x,v)) = %s, want %s", got, v)
	}
}

func TestPlaceLeadNothingIsNoOp(t *testing.T) {
	x := NewExpression(NewNumber(1))
	if got := x.PlaceLead(Nil); got != x {
		t.Errorf("place_lead(x, nothing) returned a new expression, want x unchanged")
	}
}

func TestReverseIsInvolution(t *testing.T) {
	x := NewExpression(NewNumber(1), NewNumber(2), NewNumber(3))
	got := x.Reverse().Reverse()
	if Compare(got, x) != 0 {
		t.Errorf("reverse(reverse(x)) = %s, want %s", got, x)
	}
}

func TestTrimIsIdempotent(t *testing.T) {
	inner := NewExpression(NewNumber(1), NewNumber(2))
	nested := NewExpression(inner)
	once := trim(nested)
	twice := trim(once)
	if Compare(once, twice) != 0 {
		t.Errorf("trim is not idempotent: trim(x) = %s, trim(trim(x)) = %s", once, twice)
	}
}

func TestTrimOnlyUnwrapsExpressionLead(t *testing.T) {
	inner := NewExpression(NewNumber(5))
	v := trim(inner)
	if v != Value(inner) {
		t.Errorf("trim((5)) = %v, want (5) unchanged since its lead is a number", v)
	}

	nonExprLead := NewExpression(NewSymbol("x"))
	if got := trim(nonExprLead); got != Value(nonExprLead) {
		t.Errorf("trim should not unwrap a single-element expression whose lead isn't an expression")
	}
}

func TestGetSetOrdinals(t *testing.T) {
	x := NewExpression(NewNumber(1), NewNumber(2), NewNumber(3))
	if got := x.Get(2); Compare(got, NewNumber(2)) != 0 {
		t.Errorf("Get(2) = %s, want 2", got)
	}
	if got := x.Get(-1); Compare(got, NewNumber(3)) != 0 {
		t.Errorf("Get(-1) = %s, want 3 (last element)", got)
	}
	if got := x.Get(0); got != Nil {
		t.Errorf("Get(0) = %s, want nothing", got)
	}
	if got := x.Get(99); got != Nil {
		t.Errorf("Get(99) = %s, want nothing", got)
	}
	y := x.Set(1, NewNumber(9))
	if got := y.Get(1); Compare(got, NewNumber(9)) != 0 {
		t.Errorf("Set(1,9) then Get(1) = %s, want 9", got)
	}
	if got := x.Get(1); Compare(got, NewNumber(1)) != 0 {
		t.Errorf("Set must not mutate the receiver: x.Get(1) = %s, want 1", got)
	}
}
