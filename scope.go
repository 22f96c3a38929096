package oliver

// Scope is an expression delimited by begin_scope/end_scope opcode markers,
// used to introduce a new lexical frame. It has the same shape as an
// Expression; the evaluator distinguishes it only by its dynamic type, not
// by inspecting the markers.
type Scope struct {
	Expression
}

func (*Scope) isValue() {}

// NewScope wraps body between begin_scope and end_scope markers.
func NewScope(body *Expression) *Scope {
	e := body.PlaceLead(NewOpCall(BeginScope)).PlaceLast(NewOpCall(EndScope))
	return &Scope{Expression: *e}
}

func (s *Scope) String() string {
	return s.Expression.String()
}

func (s *Scope) Repr() string {
	return s.Expression.Repr()
}
