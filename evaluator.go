package oliver

import (
	"fmt"
	"io"
	"math"

	"github.com/davecgh/go-spew/spew"
)

// DefaultMaxStackSize is the value stack bound used when Evaluator.MaxStackSize
// is left at zero.
const DefaultMaxStackSize = 2048

// Evaluator is the dual-queue state machine described in spec §4.4: a
// stack of code expressions, a value stack, and a stack of scope frames.
// The zero value is not ready to use; build one with NewEvaluator.
type Evaluator struct {
	code   []*Expression
	stack  []Value
	scopes []map[string]Value

	running bool

	// MaxStackSize bounds the value stack. Exceeding it pushes a single
	// stack_overflow error and silently drops further pushes. Zero means
	// DefaultMaxStackSize.
	MaxStackSize int

	// Trace, when non-nil, receives a spew dump of the code stack and
	// value stack before every opcode dispatch. Gated by the CLI's
	// -trace flag; unrelated to language semantics.
	Trace io.Writer
}

// NewEvaluator builds an Evaluator ready for a single top-level Eval call.
func NewEvaluator() *Evaluator {
	return &Evaluator{MaxStackSize: DefaultMaxStackSize}
}

// Eval drives exp to completion and returns the final value stack,
// reconstructed bottom-to-top as an expression (spec §4.4's "state owned
// during a single top-level eval").
func (ev *Evaluator) Eval(exp *Expression) *Expression {
	ev.pushScope(nil)
	ev.running = true
	ev.stageCode(exp)
	ev.run()
	return NewExpression(ev.stack...)
}

// run drains every staged code frame.
func (ev *Evaluator) run() {
	for len(ev.code) > 0 && ev.running {
		ev.step()
	}
}

// step pops and dispatches a single code token, following symbol chains
// first, matching original_source's eval loop.
func (ev *Evaluator) step() {
	v := ev.popCode()
	for {
		sym, ok := v.(*Symbol)
		if !ok {
			break
		}
		v = ev.getSymbol(sym)
	}
	ev.dispatch(v)
}

// evalOne evaluates a single raw code token to exactly one resulting value,
// in a code stack of its own rather than depth-tracking within the
// caller's. A depth counter looks equivalent at first: run until len(code)
// drops back to where it started. It isn't, because an infix operator's
// postfix rewrite (pushCode) always targets whatever frame currently sits
// on top; once the pushed argument frame itself drains to empty mid
// rewrite (say, evaluating the '1' out of `n - '1'`), the rewritten
// SubPost/operand tokens land in whatever frame the *caller* already had
// underneath, and a depth check keyed to the caller's original frame count
// sees that as "back to depth" and stops before those tokens ever run.
// Swapping in a genuinely empty ev.code for the duration sidesteps this:
// pushCode has nothing but this call's own frames to write into until they
// are truly exhausted.
func (ev *Evaluator) evalOne(arg Value) Value {
	saved := ev.code
	ev.code = []*Expression{NewExpression(arg)}
	for len(ev.code) > 0 && ev.running {
		ev.step()
	}
	ev.code = saved
	return ev.popStack()
}

func (ev *Evaluator) dispatch(v Value) {
	switch t := v.(type) {
	case *Expression:
		ev.stageCode(t)
	case *Scope:
		ev.stageScope(t)
	case *Lambda:
		ev.applyLambda(t)
	case *OpCall:
		ev.dispatchOp(t.Code)
	case Nothing:
		// ignore
	default:
		ev.pushStack(v)
	}
}

// trim collapses a single-element expression whose sole element is itself
// an expression, down to a fixed point (spec §4.4's "Trim"). It only
// unwraps through *Expression links; a *Scope is returned unchanged unless
// its single element happens to be a plain expression.
func trim(v Value) Value {
	for {
		var lead Value
		switch t := v.(type) {
		case *Expression:
			if t.Size() != 1 {
				return v
			}
			lead = t.Lead()
		case *Scope:
			if t.Size() != 1 {
				return v
			}
			lead = t.Lead()
		default:
			return v
		}
		if _, ok := lead.(*Expression); !ok {
			return v
		}
		v = lead
	}
}

func (ev *Evaluator) stageCode(e *Expression) {
	v := trim(e)
	if exp, ok := v.(*Expression); ok {
		if exp.Size() > 0 {
			ev.code = append(ev.code, exp)
		}
		return
	}
	ev.dispatch(v)
}

func (ev *Evaluator) stageScope(s *Scope) {
	v := trim(s)
	switch t := v.(type) {
	case *Scope:
		if t.Size() > 0 {
			ev.code = append(ev.code, &t.Expression)
		}
	case *Expression:
		if t.Size() > 0 {
			ev.code = append(ev.code, t)
		}
	default:
		ev.dispatch(v)
	}
}

// popCode pops the head of the topmost code expression, popping the frame
// itself once it empties. It returns Nil once the code stack is exhausted.
func (ev *Evaluator) popCode() Value {
	if len(ev.code) == 0 {
		return Nil
	}
	top := len(ev.code) - 1
	frame := ev.code[top]
	v := frame.Lead()
	rest := frame.ShiftLead()
	if rest.Size() == 0 {
		ev.code = ev.code[:top]
	} else {
		ev.code[top] = rest
	}
	return v
}

func (ev *Evaluator) peekCode() Value {
	if len(ev.code) == 0 {
		return Nil
	}
	return ev.code[len(ev.code)-1].Lead()
}

// pushCode prepends v onto the topmost code frame, starting a fresh frame
// if the code stack is empty. Unlike original_source's evaluator, which
// silently drops a code-side push once the code stack has run dry, this
// always succeeds: without it, an infix operator that is the final token
// in a program (spec.md §8 scenario 1, `'3' '4' +`) would have its
// rewritten operand and postfix opcode discarded, and the addition would
// never run. See DESIGN.md.
func (ev *Evaluator) pushCode(v Value) {
	if _, ok := v.(Nothing); ok {
		return
	}
	if len(ev.code) == 0 {
		ev.code = append(ev.code, NewExpression(v))
		return
	}
	top := len(ev.code) - 1
	ev.code[top] = ev.code[top].PlaceLead(v)
}

// popCodeFrame discards the entire topmost code frame, used by the END
// opcode (spec §9's loop/END resolution: END pops exactly one frame).
func (ev *Evaluator) popCodeFrame() {
	if len(ev.code) > 0 {
		ev.code = ev.code[:len(ev.code)-1]
	}
}

// stageSequence stages values as consecutive code tokens in the given
// order, atomically: values[0] ends up frontmost and runs first. Building
// the whole sequence in one call (rather than one pushCode per value from
// the caller) avoids interleaving with content staged earlier in the same
// handler.
func (ev *Evaluator) stageSequence(values ...Value) {
	for i := len(values) - 1; i >= 0; i-- {
		ev.pushCode(values[i])
	}
}

func (ev *Evaluator) pushStack(v Value) {
	limit := ev.maxStack()
	if len(ev.stack) < limit {
		ev.stack = append(ev.stack, v)
		return
	}
	if len(ev.stack) == limit {
		ev.stack = append(ev.stack, NewError(ErrStackOverflow))
	}
}

func (ev *Evaluator) popStack() Value {
	if len(ev.stack) == 0 {
		return NewError(ErrStackUnderflow)
	}
	v := ev.stack[len(ev.stack)-1]
	ev.stack = ev.stack[:len(ev.stack)-1]
	return v
}

func (ev *Evaluator) maxStack() int {
	if ev.MaxStackSize <= 0 {
		return DefaultMaxStackSize
	}
	return ev.MaxStackSize
}

func (ev *Evaluator) getSymbol(s *Symbol) Value {
	for i := len(ev.scopes) - 1; i >= 0; i-- {
		if v, ok := ev.scopes[i][s.Name]; ok {
			return v
		}
	}
	return NewError(ErrUndefVar)
}

// resolve repeatedly looks up val while it is a symbol, following chains
// of aliasing the way original_source's set_symbol/get_symbol loops do.
func (ev *Evaluator) resolve(val Value) Value {
	for {
		sym, ok := val.(*Symbol)
		if !ok {
			return val
		}
		val = ev.getSymbol(sym)
	}
}

func (ev *Evaluator) setSymbol(name string, val Value) {
	val = ev.resolve(val)
	if len(ev.scopes) == 0 {
		return
	}
	ev.scopes[len(ev.scopes)-1][name] = val
}

func (ev *Evaluator) pushScope(captured map[string]Value) {
	frame := make(map[string]Value, len(captured))
	for k, v := range captured {
		frame[k] = v
	}
	ev.scopes = append(ev.scopes, frame)
}

func (ev *Evaluator) popScope() {
	if len(ev.scopes) == 0 {
		return
	}
	ev.scopes = ev.scopes[:len(ev.scopes)-1]
}

// applyLambda runs the three-step protocol from spec §4.4: install a frame
// from the captured map, bind formals from the calling code, then stage the
// body followed by end_scope. original_source's own lambda application
// binds each formal straight to whatever raw code token followed the call,
// without evaluating it; that leaves a formal bound to a whole unevaluated
// expression whenever the caller passes anything but a bare literal, which
// silently breaks any recursive call whose argument is itself a
// sub-expression (fact's `n - '1'`, for one). Each argument is instead run
// to a single value with evalOne before binding, giving ordinary
// call-by-value semantics. See DESIGN.md.
func (ev *Evaluator) applyLambda(l *Lambda) {
	ev.pushScope(l.Captured)
	args := l.Args
	for args.Size() > 0 {
		var name Value
		name, args = args.Lead(), args.ShiftLead()
		val := ev.evalOne(ev.popCode())
		if sym, ok := name.(*Symbol); ok {
			ev.setSymbol(sym.Name, val)
		}
	}
	ev.stageSequence(l.Body, NewOpCall(EndScope))
}

func boolFrom(b bool) *Boolean {
	if b {
		return True
	}
	return False
}

func isIterable(v Value) bool {
	switch v.(type) {
	case *String, *Expression, *Scope, *List:
		return true
	default:
		return false
	}
}

func (ev *Evaluator) dispatchOp(op Opcode) {
	if ev.Trace != nil {
		fmt.Fprintf(ev.Trace, "-- %s --\n", opcodeSpelling[op])
		spew.Fdump(ev.Trace, ev.code, ev.stack)
	}
	switch bandOf(op) {
	case BandPrefixUnary:
		ev.prefixUnary(op)
	case BandPostfixUnary:
		ev.postfixUnary(op)
	case BandInfixBinary:
		ev.infixBinary(op)
	case BandPostfixBinary:
		ev.postfixBinary(op)
	case BandStack:
		ev.stackOp(op)
	case BandFunctionScope:
		ev.functionScope(op)
	case BandSequence:
		ev.sequenceOp(op)
	case BandIO:
		ev.ioOp(op)
	case BandExtendedLogic:
		ev.extendedLogic(op)
	default:
		panic(fmt.Sprintf("oliver: opcode %d has no dispatch band", op))
	}
}

// prefixUnary rewrites `opr x` into `x OPR`: pop the operand from the code
// queue, stage it ahead of the postfix opcode that will consume it from
// the stack.
func (ev *Evaluator) prefixUnary(op Opcode) {
	x := ev.popCode()
	ev.stageSequence(x, NewOpCall(postfixOf(op)))
}

func (ev *Evaluator) postfixUnary(op Opcode) {
	x := ev.popStack()
	var y Value
	switch op {
	case Is:
		y = boolFrom(Truthy(x))
	case NegPost:
		y = Neg(x)
	case NotPost:
		y = boolFrom(!Truthy(x))
	default:
		panic(fmt.Sprintf("oliver: unhandled postfix-unary opcode %d", op))
	}
	ev.pushStack(y)
}

// infixBinary rewrites `opr y` after an already-staged left operand: pull
// the right operand from the code queue, stage it ahead of the postfix
// opcode. See pushCode's doc comment for why this always succeeds even
// when the operator is the last token in the program.
func (ev *Evaluator) infixBinary(op Opcode) {
	y := ev.popCode()
	ev.stageSequence(y, NewOpCall(postfixOf(op)))
}

func compareBool(x, y Value, pred func(c float64) bool) *Boolean {
	c := Compare(x, y)
	if math.IsNaN(c) {
		return UndefinedBoolean
	}
	return boolFrom(pred(c))
}

func (ev *Evaluator) postfixBinary(op Opcode) {
	y := ev.popStack()
	x := ev.popStack()
	var z Value
	switch op {
	case AndPost:
		z = And(x, y)
	case OrPost:
		z = Or(x, y)
	case XorPost:
		z = Xor(x, y)
	case EqPost:
		z = compareBool(x, y, func(c float64) bool { return c == 0 })
	case NePost:
		z = compareBool(x, y, func(c float64) bool { return c != 0 })
	case LtPost:
		z = compareBool(x, y, func(c float64) bool { return c < 0 })
	case LePost:
		z = compareBool(x, y, func(c float64) bool { return c <= 0 })
	case GtPost:
		z = compareBool(x, y, func(c float64) bool { return c > 0 })
	case GePost:
		z = compareBool(x, y, func(c float64) bool { return c >= 0 })
	case AddPost:
		z = Add(x, y)
	case SubPost:
		z = Sub(x, y)
	case MulPost:
		z = Mul(x, y)
	case DivPost:
		z = Div(x, y)
	case ModPost:
		z = Mod(x, y)
	case FloorDivPost:
		z = FloorDiv(x, y)
	case RemPost:
		z = Rem(x, y)
	case PowPost:
		z = Pow(x, y)
	default:
		panic(fmt.Sprintf("oliver: unhandled postfix-binary opcode %d", op))
	}
	ev.pushStack(z)
}

func (ev *Evaluator) stackOp(op Opcode) {
	switch op {
	case Stack:
		// Bypasses the overflow guard, matching original_source's direct
		// emplace_back onto the value stack for this one opcode.
		ev.stack = append(ev.stack, NewExpression(ev.stack...))
	case Depth:
		ev.pushStack(NewNumber(float64(len(ev.stack))))
	case MaxDepth:
		ev.pushStack(NewNumber(float64(ev.maxStack())))
	case SetStack:
		v := ev.resolve(ev.popCode())
		ev.stack = ev.stack[:0]
		if exp, ok := v.(*Expression); ok {
			for _, item := range exp.values() {
				ev.pushStack(item)
			}
		}
	case Break:
		ev.running = false
	case End:
		ev.popCodeFrame()
	default:
		panic(fmt.Sprintf("oliver: unhandled stack opcode %d", op))
	}
}

func (ev *Evaluator) functionScope(op Opcode) {
	switch op {
	case BeginScope:
		ev.pushScope(nil)
	case EndScope:
		ev.popScope()
	case LetPost:
		val := ev.popStack()
		v := ev.popCode()
		if sym, ok := v.(*Symbol); ok {
			ev.setSymbol(sym.Name, val)
		}
	case Let:
		ev.letOp()
	case Def:
		ev.defOp()
	case Bind:
		ev.bindOp()
	case Return:
		ev.returnOp()
	case Relent:
		ev.pushStack(ev.resolve(ev.popCode()))
	default:
		panic(fmt.Sprintf("oliver: unhandled function-scope opcode %d", op))
	}
}

// letOp implements spec §4.4's "let" triplet: for each (var,val) pair, a
// lambda value binds directly; anything else stages val, then LET, then
// the target symbol, so ordinary stack discipline finishes the binding.
// Pairs are staged so that they execute in the same left-to-right order
// they appear in vars/vals.
//
// oliver-opcode: let
func (ev *Evaluator) letOp() {
	vars := ev.popCode()
	oper := ev.popCode()
	vals := ev.popCode()
	if OpCode(oper) != EqOp {
		return
	}
	varsExp, ok := vars.(*Expression)
	if !ok {
		varsExp = NewExpression(vars)
	}
	valsExp, ok := vals.(*Expression)
	if !ok {
		valsExp = NewExpression(vals)
	}
	type pair struct{ v, val Value }
	var pairs []pair
	for varsExp.Size() > 0 {
		v := varsExp.Lead()
		varsExp = varsExp.ShiftLead()
		val := valsExp.Lead()
		valsExp = valsExp.ShiftLead()
		pairs = append(pairs, pair{v, val})
	}
	for i := len(pairs) - 1; i >= 0; i-- {
		p := pairs[i]
		if _, ok := p.val.(*Lambda); ok {
			if sym, ok := p.v.(*Symbol); ok {
				ev.setSymbol(sym.Name, p.val)
			}
			continue
		}
		ev.stageSequence(p.val, NewOpCall(LetPost), p.v)
	}
}

// defOp implements spec §4.4's def: build a lambda from args/body, snapshot
// the current non-global frame into its capture map, bind the lambda under
// its own name for recursion, then stage `let name = lambda`.
//
// oliver-opcode: def
func (ev *Evaluator) defOp() {
	name := ev.popCode()
	args := ev.popCode()
	body := ev.popCode()
	argsExp, ok := args.(*Expression)
	if !ok {
		argsExp = NewExpression(args)
	}
	var enclosing map[string]Value
	if len(ev.scopes) > 1 {
		enclosing = ev.scopes[len(ev.scopes)-1]
	}
	var lam *Lambda
	if sym, ok := name.(*Symbol); ok {
		lam = newRecursiveLambda(argsExp, body, enclosing, sym.Name)
	} else {
		lam = NewLambda(argsExp, body).withCapture(enclosing)
	}
	ev.stageSequence(NewOpCall(Let), name, NewOpCall(EqOp), lam)
}

// bindOp implements spec §4.4's bind: rebuild the named lambda's capture
// map by resolving each formal in the current scope. original_source's
// bind_op pops a third, unused "oper" token between args and name whose
// value is never read; this implementation drops that dead pop and takes
// the plain two-operand form spec.md describes. See DESIGN.md.
//
// oliver-opcode: bind
func (ev *Evaluator) bindOp() {
	args := ev.popCode()
	name := ev.popCode()
	argsExp, ok := args.(*Expression)
	if !ok {
		argsExp = NewExpression(args)
	}
	lam, ok := ev.resolve(name).(*Lambda)
	if !ok {
		return
	}
	overlay := map[string]Value{}
	for argsExp.Size() > 0 {
		arg := argsExp.Lead()
		argsExp = argsExp.ShiftLead()
		sym, ok := arg.(*Symbol)
		if !ok {
			continue
		}
		overlay[sym.Name] = ev.resolve(ev.getSymbol(sym))
	}
	rebound := lam.withCapture(overlay)
	if sym, ok := name.(*Symbol); ok {
		ev.setSymbol(sym.Name, rebound)
	}
}

// returnOp implements spec §4.4's return: resolve each return value against
// the current (about-to-be-torn-down) frame, discard code up to and
// including the matching end_scope marker, then re-stage end_scope
// followed by the resolved values.
//
// oliver-opcode: return
func (ev *Evaluator) returnOp() {
	args := ev.popCode()
	argsExp, ok := args.(*Expression)
	if !ok {
		argsExp = NewExpression(args)
	}
	resolved := make([]Value, 0, argsExp.Size())
	for argsExp.Size() > 0 {
		a := argsExp.Lead()
		argsExp = argsExp.ShiftLead()
		resolved = append(resolved, ev.resolve(a))
	}
	for len(ev.code) > 0 {
		itr := ev.popCode()
		if oc, ok := itr.(*OpCall); ok && oc.Code == EndScope {
			break
		}
	}
	staged := append([]Value{NewOpCall(EndScope)}, resolved...)
	ev.stageSequence(staged...)
}

func (ev *Evaluator) sequenceOp(op Opcode) {
	switch op {
	case Len:
		ev.prefixUnary(op)
	case LenPost:
		ev.pushStack(NewNumber(float64(Size(ev.popStack()))))
	case LeadOp:
		ev.prefixUnary(op)
	case LeadPost:
		ev.pushStack(Lead(ev.popStack()))
	case LastOp:
		ev.prefixUnary(op)
	case LastPost:
		ev.pushStack(Last(ev.popStack()))
	case PlaceLeadOp:
		ev.infixBinary(op)
	case PlaceLeadPost:
		n := ev.popStack()
		l := ev.popStack()
		ev.pushStack(PlaceLead(l, n))
	case PlaceLastOp:
		ev.infixBinary(op)
	case PlaceLastPost:
		n := ev.popStack()
		l := ev.popStack()
		ev.pushStack(PlaceLast(l, n))
	case ShiftLeadOp:
		ev.prefixUnary(op)
	case ShiftLeadPost:
		ev.pushStack(ShiftLead(ev.popStack()))
	case ShiftLastOp:
		ev.prefixUnary(op)
	case ShiftLastPost:
		ev.pushStack(ShiftLast(ev.popStack()))
	case IsIter:
		ev.prefixUnary(op)
	case IsIterPost:
		ev.pushStack(boolFrom(isIterable(ev.popStack())))
	case Index:
		ev.indexOp()
	case GetPost:
		index := ev.popStack()
		object := ev.popStack()
		ev.pushStack(Get(object, index))
	case SetPost:
		value := ev.popStack()
		index := ev.popStack()
		object := ev.popStack()
		ev.pushStack(Set(object, index, value))
	default:
		panic(fmt.Sprintf("oliver: unhandled sequence opcode %d", op))
	}
}

// indexOp implements the `.` bracket-dispatch sugar: `. [i]` rewrites to a
// GET against the already-staged object; `. [i = v]` rewrites to a SET.
// Anything else staged after `.` that isn't a one- or three-element list
// of this shape is silently dropped, matching original_source's
// index_op, which only recognizes those two shapes.
//
// oliver-opcode: .
func (ev *Evaluator) indexOp() {
	next := ev.popCode()
	l, ok := next.(*List)
	if !ok {
		return
	}
	switch l.Size() {
	case 1:
		ev.stageSequence(l.Get(1), NewOpCall(GetPost))
	case 3:
		if oc, ok := l.Get(2).(*OpCall); ok && oc.Code == EqOp {
			ev.stageSequence(l.Get(1), l.Get(3), NewOpCall(SetPost))
		}
	}
}

func (ev *Evaluator) ioOp(op Opcode) {
	switch op {
	case Print:
		fmt.Println(Str(ev.popStack()))
	default:
		panic(fmt.Sprintf("oliver: unhandled io opcode %d", op))
	}
}

func (ev *Evaluator) extendedLogic(op Opcode) {
	switch op {
	case Imply:
		ev.implyOp()
	case Else:
		if oc, ok := ev.peekCode().(*OpCall); ok && oc.Code == Imply {
			ev.pushStack(True)
		}
	case Cond:
		ev.condOp()
	case Loop:
		ev.loopOp()
	case ConstQ:
		ev.constQOp()
	case VarQ:
		ev.varQOp()
	default:
		panic(fmt.Sprintf("oliver: unhandled extended-logic opcode %d", op))
	}
}

// implyOp implements `p imply q else r`: p is already on the stack (the
// imply rewrite protocol stages it as an ordinary code token ahead of
// `imply`, the same way infix operators stage their left operand); q is
// the consequent still waiting in the code queue, with the paired `else r`
// sitting right behind it. If p is falsy, q is simply discarded and the
// code queue moves on to else/r as normal, running the fallback. If p is
// truthy, q must run and r must not: since both would otherwise execute in
// sequence, the else marker and the fallback it guards are popped and
// discarded here, before q is staged to run in their place. The else
// recognized here is the Else opcode that cond and loop stage; an `else`
// written in source parses to the boolean true and is not treated as a
// marker.
//
// oliver-opcode: imply
func (ev *Evaluator) implyOp() {
	p := ev.popStack()
	q := ev.popCode()
	if !Truthy(p) {
		return
	}
	if oc, ok := ev.peekCode().(*OpCall); ok && oc.Code == Else {
		ev.popCode() // the else marker
		ev.popCode() // the fallback it guards
	}
	ev.pushCode(q)
}

// condOp rewrites a flat run of `predicate consequent ... default` siblings
// into a right-nested `p1 imply q1 else (p2 imply q2 else (... else
// default))` chain and re-stages it, per spec §4.4. Unlike
// original_source's cond_op, which isolates the whole pair list inside one
// pre-bracketed operand, this pops pairs straight off the live code queue:
// spec.md's own worked example (`cond (n <= '1') ('1') else (...)`) writes
// the pairs as bare siblings after cond, not as one further-nested group.
// Because stageCode always gives a dispatched expression its own frame,
// those siblings already sit alone atop the code stack, so it suffices to
// keep popping while the frame that held them hasn't yet emptied out from
// under us into whatever sits below (the def body's trailing end_scope, a
// caller's next statement, and so on).
//
// oliver-opcode: cond
func (ev *Evaluator) condOp() {
	depth := len(ev.code)
	var preds, quots []Value
	for len(ev.code) >= depth {
		p := ev.popCode()
		if len(ev.code) < depth {
			break
		}
		q := ev.popCode()
		qExp, ok := q.(*Expression)
		if !ok {
			break
		}
		preds = append(preds, p)
		quots = append(quots, qExp)
	}
	if len(preds) == 0 {
		return
	}
	result := NewExpression()
	for i := len(preds) - 1; i >= 0; i-- {
		result = NewExpression(preds[i], NewOpCall(Imply), quots[i], NewOpCall(Else), result)
	}
	ev.stageCode(result)
}

// loopOp implements spec §4.4's loop: given predicate p and body q, stages
// `p imply q else END loop p q` inside a fresh empty code frame, so that
// once p is falsy, END pops that frame and the loop stops; otherwise the
// body runs and the whole sequence is restaged for another pass.
//
// oliver-opcode: loop
func (ev *Evaluator) loopOp() {
	p := ev.popCode()
	q := ev.popCode()
	ev.code = append(ev.code, NewExpression())
	ev.stageSequence(p, NewOpCall(Imply), q, NewOpCall(Else), NewOpCall(End), NewOpCall(Loop), p, q)
}

// constQOp probes whether the next code token names an opcode (a
// syntactic constant, per original_source's is_const_op: anything that is
// itself an op_call is considered "constant").
//
// oliver-opcode: const?
func (ev *Evaluator) constQOp() {
	x := ev.popCode()
	_, isOp := x.(*OpCall)
	ev.pushStack(boolFrom(isOp))
}

// varQOp probes the scope stack for a symbol's presence. Earlier drafts
// kept a set of previously-probed names to skip re-walking the scope
// stack on a repeated query, but that cache can only ever be sound for
// positive results recorded and never invalidated: a let after a
// negative probe would leave a stale "not defined" answer cached for a
// name that is now bound. The scope stack itself is at most a handful of
// frames deep, so the walk this replaces was never the expensive part.
//
// oliver-opcode: var?
func (ev *Evaluator) varQOp() {
	x := ev.popCode()
	sym, ok := x.(*Symbol)
	if !ok {
		ev.pushStack(False)
		return
	}
	for i := len(ev.scopes) - 1; i >= 0; i-- {
		if _, ok := ev.scopes[i][sym.Name]; ok {
			ev.pushStack(True)
			return
		}
	}
	ev.pushStack(False)
}
