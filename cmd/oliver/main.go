// Command oliver runs an Oliver source file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/maxjmartin/oliver"
)

func main() {
	dump := flag.Bool("dump", false, "write a .oll token dump next to the input file")
	trace := flag.Bool("trace", false, "dump evaluator state to stderr before every opcode")
	maxStack := flag.Int("max-stack", oliver.DefaultMaxStackSize, "value stack bound")
	flag.Parse()

	if flag.NArg() == 0 {
		return
	}
	path := flag.Arg(0)

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	if *dump {
		if err := writeTokenDump(path, string(src)); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	exp, err := oliver.ParseString(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Printf("input code = %s\n", oliver.Repr(exp))

	ev := oliver.NewEvaluator()
	ev.MaxStackSize = *maxStack
	if *trace {
		ev.Trace = os.Stderr
	}

	result := run(ev, exp)
	fmt.Printf("result code = %s\n", oliver.Repr(result))
}

// run drives ev to completion, recovering from an internal panic the way
// Oliver.cpp's top-level try/catch turns a host exception into a single
// diagnostic instead of a nonzero exit.
func run(ev *oliver.Evaluator, exp *oliver.Expression) (result *oliver.Expression) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "oliver: runtime exception: %v\n", r)
			result = oliver.NewExpression()
		}
	}()
	return ev.Eval(exp)
}

func writeTokenDump(path, src string) error {
	toks, err := oliver.Tokenize(src)
	if err != nil {
		return err
	}
	dumpPath := trimExt(path) + ".oll"
	f, err := os.Create(dumpPath)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, t := range toks {
		fmt.Fprintln(w, t)
	}
	return w.Flush()
}

func trimExt(path string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexByte(path, '/') {
		return path[:i]
	}
	return path
}
