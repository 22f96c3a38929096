package oliver

import "strconv"

// String is an immutable text value.
type String struct {
	Value string
}

func (*String) isValue() {}

// NewString builds a String.
func NewString(value string) *String {
	return &String{Value: value}
}

func (s *String) String() string { return s.Value }

// Repr renders a String in quoted, escaped form.
func (s *String) Repr() string {
	return strconv.Quote(s.Value)
}
