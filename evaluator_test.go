package oliver_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/maxjmartin/oliver"
	"github.com/maxjmartin/oliver/testutils"
)

func TestEvaluatorTraceWritesOpcodeDump(t *testing.T) {
	exp, err := oliver.ParseString(`'3' '4' +`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	ev := oliver.NewEvaluator()
	ev.Trace = &buf
	ev.Eval(exp)
	out := buf.String()
	if out == "" {
		t.Fatal("Trace writer received no output")
	}
	if !strings.Contains(out, "+") {
		t.Errorf("trace output missing dispatched opcode spelling %q: %s", "+", out)
	}
}

// End-to-end scenarios, table 8 in the language design document: literal
// programs paired with their expected final stack repr.
func TestEndToEndScenarios(t *testing.T) {
	testutils.RunAll(t, []testutils.SourceTestCase{
		{Source: `'3' '4' +`, Want: "(7)"},
		{Source: `'2' ** '10'`, Want: "(1024)"},
		{Source: `"hello" PRINT`, Want: "()"},
		{Source: `let (x) = ('5') x x *`, Want: "(25)"},
		{Source: `def sq (x) (x x *) sq '6'`, Want: "(36)"},
		{Source: `def fact (n) (cond (n <= '1') ('1') else (n fact (n - '1') *)) fact '5'`, Want: "(120)"},
	})
}

func TestBareLiteralPushesOneValue(t *testing.T) {
	exp, err := oliver.ParseString(`'42'`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ev := oliver.NewEvaluator()
	before := exp.Size()
	result := ev.Eval(exp)
	if result.Size() != 1 {
		t.Fatalf("stack depth = %d, want 1", result.Size())
	}
	if before != 1 {
		t.Fatalf("test setup: expected a single-token program, got %d tokens", before)
	}
}

func TestScopeDepthRestoredAfterCall(t *testing.T) {
	// A successful call must leave no residue in the evaluator beyond its
	// result: applying sq should return the scope stack to its pre-call
	// depth, which we can only observe indirectly by confirming that a
	// second, independent call still resolves symbols correctly.
	exp, err := oliver.ParseString(`def sq (x) (x x *) sq '3' sq '4'`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ev := oliver.NewEvaluator()
	result := ev.Eval(exp)
	if got, want := oliver.Repr(result), "(9 16)"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestUndefinedVariableIsAnErrorValue(t *testing.T) {
	exp, err := oliver.ParseString(`nope`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ev := oliver.NewEvaluator()
	result := ev.Eval(exp)
	if got, want := oliver.Str(result.Lead()), "error<undef_var>"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestPrintConsumesTopOfStack(t *testing.T) {
	exp, err := oliver.ParseString(`nope PRINT`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ev := oliver.NewEvaluator()
	result := ev.Eval(exp)
	if result.Size() != 0 {
		t.Errorf("stack after PRINT = %s, want empty", oliver.Repr(result))
	}
}

func TestLoopCountsDown(t *testing.T) {
	// A hand-rolled countdown: n stays bound across iterations via let's
	// mutable rebinding, and loop should terminate once n <= 0. let pairs
	// vars with vals element-wise, so the decrement is wrapped once more to
	// make it a single value.
	exp, err := oliver.ParseString(`let (n) = ('3') loop (n > '0') (let (n) = ((n - '1'))) n`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ev := oliver.NewEvaluator()
	result := ev.Eval(exp)
	if got, want := oliver.Repr(result), "(0)"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
