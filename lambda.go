package oliver

import "strings"

// Lambda is a callable value carrying a formal argument list, a body
// expression, and a captured variable map recorded at definition time.
type Lambda struct {
	Args     *Expression
	Body     Value
	Captured map[string]Value
}

func (*Lambda) isValue() {}

// NewLambda builds a Lambda with an empty capture map.
func NewLambda(args *Expression, body Value) *Lambda {
	return &Lambda{Args: args, Body: body, Captured: map[string]Value{}}
}

// Lead returns the lambda's formal argument list.
func (l *Lambda) Lead() Value {
	return l.Args
}

// Last returns the lambda's body.
func (l *Lambda) Last() Value {
	return l.Body
}

// newRecursiveLambda builds a lambda bound under selfName inside its own
// capture map, so the body can call itself by that name without a mutable
// global environment. This is the one place a lambda's capture map is
// populated by direct mutation rather than through withCapture's
// copy-then-overlay: the map is filled in before the *Lambda pointer is
// ever handed to anything else, so nothing can observe it half-built, and
// the self-entry has to be the finished pointer itself, which no
// rebuild-a-copy step could produce. Grounded on original_source's
// lambda::bind_variable, which ties the same knot through a shared mutable
// handle.
func newRecursiveLambda(args *Expression, body Value, enclosing map[string]Value, selfName string) *Lambda {
	captured := make(map[string]Value, len(enclosing)+2)
	for k, v := range enclosing {
		captured[k] = v
	}
	l := &Lambda{Args: args, Body: body, Captured: captured}
	captured[selfName] = l
	captured["self"] = NewSymbol(selfName)
	return l
}

// withCapture returns a copy of l whose capture map is rebuilt from base
// plus overlay: base is copied first, then every entry in overlay
// overwrites it. This is used both by def (snapshotting the enclosing
// scope) and by bind (rebuilding the map with resolved argument values),
// per the decision recorded in DESIGN.md to always rebuild rather than
// mutate a lambda's capture map in place.
func (l *Lambda) withCapture(overlay map[string]Value) *Lambda {
	captured := make(map[string]Value, len(l.Captured)+len(overlay))
	for k, v := range l.Captured {
		captured[k] = v
	}
	for k, v := range overlay {
		captured[k] = v
	}
	return &Lambda{Args: l.Args, Body: l.Body, Captured: captured}
}

func (l *Lambda) String() string {
	names := make([]string, 0, l.Args.Size())
	n := l.Args.headNode()
	for n != nil {
		names = append(names, Str(n.val))
		n = n.next
	}
	return "lambda(" + strings.Join(names, " ") + " -> " + Str(l.Body) + ")"
}
