package oliver

// Symbol is an identifier name, resolved lexically by the evaluator.
type Symbol struct {
	Name string
}

func (*Symbol) isValue() {}

// NewSymbol builds a Symbol.
func NewSymbol(name string) *Symbol {
	return &Symbol{Name: name}
}

func (s *Symbol) String() string { return s.Name }
