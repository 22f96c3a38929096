package oliver

// Nothing is the unit/absence value. There is exactly one Nothing value;
// it carries no data, so it is represented as an empty struct rather than
// a pointer type like the other variants.
type Nothing struct{}

func (Nothing) isValue() {}

// Nil is the single Nothing value. Every absence in the evaluator uses
// this value rather than a fresh Nothing{}, so that equality checks that
// happen to compare by identity still behave sensibly.
var Nil = Nothing{}

func (Nothing) String() string { return "nothing" }
