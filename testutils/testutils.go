// Package testutils provides utilities for testing Oliver programs.
package testutils

import (
	"testing"

	"github.com/maxjmartin/oliver"
)

// SourceTestCase is a test case containing Oliver source code and the
// expected repr of the value stack after evaluation.
type SourceTestCase struct {
	// Source is the Oliver source code to execute.
	Source string
	// Want is the expected Repr of the resulting stack expression.
	Want string
}

// TestFunc returns a test function for the case, using a fresh Evaluator
// per run.
func (c SourceTestCase) TestFunc() func(*testing.T) {
	return func(t *testing.T) {
		exp, err := oliver.ParseString(c.Source)
		if err != nil {
			t.Fatalf("could not parse %q: %v", c.Source, err)
		}
		ev := oliver.NewEvaluator()
		result := ev.Eval(exp)
		if got := oliver.Repr(result); got != c.Want {
			t.Errorf("%q produced %s, want %s", c.Source, got, c.Want)
		}
	}
}

// RunAll runs every case in cases as a subtest named after its source text.
func RunAll(t *testing.T, cases []SourceTestCase) {
	for _, c := range cases {
		t.Run(c.Source, c.TestFunc())
	}
}
