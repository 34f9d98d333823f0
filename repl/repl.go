// Package repl implements vm-calc's interactive Read-Eval-Print loop: a
// readline-backed line reader, in the style of go-mix's repl.Repl, driving
// the same lexer/parser/compiler/vm pipeline used for file execution.
//
// Unlike the language design's literal description of a persistent
// fn_bytecode vector with excise-on-redeclare bookkeeping, this REPL
// relies on the chosen delete-then-reference redesign (every *value.Function
// owns a private copy of its instruction body) to get the same cross-line
// persistence for free: a function declared on one line is just another
// entry in the VM's Symbols map, so redeclaring or deleting it is handled
// entirely by the normal symbol-binding instructions (FunctionDecl,
// Delete, ReloadSymbol) with no separate bytecode pool to excise from.
package repl

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"vm-calc/builtins"
	"vm-calc/compiler"
	"vm-calc/parser"
	"vm-calc/value"
	"vm-calc/vm"
	"vm-calc/vmerrors"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

const banner = `vm-calc`

// REPL is a session: the parser's compile-time symbol table, the
// compiler's cross-line call graph, and the VM's symbol environment all
// persist across Readline iterations, exactly as file-mode would run them
// once but stretched across many lines.
type REPL struct {
	Prompt string

	table    *parser.Table
	compiler *compiler.Compiler
	machine  *vm.VM
	lastExec time.Duration
}

// New returns a REPL with a fresh, empty session state.
func New(prompt string) *REPL {
	return &REPL{
		Prompt:   prompt,
		table:    parser.NewTable(),
		compiler: compiler.New(),
		machine:  vm.New(),
	}
}

// Run starts the interactive loop against stdin/stdout until the user
// exits or EOF is reached.
func (r *REPL) Run() error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	r.printBanner(os.Stdout)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		return fmt.Errorf("repl: start readline: %w", err)
	}
	defer rl.Close()
	r.machine.Stdout = os.Stdout

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF (Ctrl+D) or readline.ErrInterrupt
			fmt.Fprintln(os.Stdout, "Goodbye!")
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rl.SaveHistory(line)

		if strings.HasPrefix(line, ".") {
			if r.handleMeta(os.Stdout, line) {
				return nil
			}
			continue
		}

		r.evalLine(os.Stdout, line)
	}
}

func (r *REPL) printBanner(w io.Writer) {
	line := strings.Repeat("-", 60)
	blueColor.Fprintln(w, line)
	greenColor.Fprintln(w, banner)
	blueColor.Fprintln(w, line)
	cyanColor.Fprintln(w, "Type an expression ending in ':' to see its value.")
	cyanColor.Fprintln(w, "Type '.quit' to exit, '.show symbols' or '.show builtin' to inspect state.")
	blueColor.Fprintln(w, line)
}

// evalLine runs one line through the pipeline. Lex/parse/compile errors
// leave the session's symbols untouched since they never reach the VM;
// runtime errors abort only the current line, per the propagation policy.
func (r *REPL) evalLine(w io.Writer, line string) {
	p := parser.New(line, r.table)
	p.ReplMode = true
	nodes, err := p.ParseProgram()
	if err != nil {
		if perr, ok := err.(*parser.Error); ok && perr.Kind == parser.NoResult {
			return
		}
		redColor.Fprintln(w, vmerrors.Render(line, err))
		return
	}

	instrs, err := r.compiler.Compile(nodes)
	if err != nil {
		redColor.Fprintln(w, vmerrors.Render(line, err))
		return
	}

	start := time.Now()
	outputs, err := r.machine.Run(instrs)
	r.lastExec = time.Since(start)
	if err != nil {
		redColor.Fprintln(w, err.Error())
		return
	}

	if len(outputs) == 0 {
		return
	}
	parts := make([]string, len(outputs))
	for i, v := range outputs {
		parts[i] = v.Display()
	}
	yellowColor.Fprintf(w, "Results: %s\n", strings.Join(parts, ", "))
}

// handleMeta processes a ".command" line. It returns true when the REPL
// should exit.
func (r *REPL) handleMeta(w io.Writer, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ".quit", ".q", ".exit":
		fmt.Fprintln(w, "Goodbye!")
		return true

	case ".show":
		if len(fields) < 2 {
			redColor.Fprintln(w, "usage: .show symbols|builtin")
			return false
		}
		switch fields[1] {
		case "symbols":
			r.showSymbols(w)
		case "builtin":
			r.showBuiltins(w)
		default:
			redColor.Fprintf(w, "unknown .show target %q\n", fields[1])
		}

	case ".time", ".timer":
		cyanColor.Fprintf(w, "last execution took %s\n", r.lastExec)

	case ".load":
		if len(fields) < 2 {
			redColor.Fprintln(w, "usage: .load [b|bytecode|binary] <path>")
			return false
		}
		r.load(w, fields[1:])

	default:
		redColor.Fprintf(w, "unknown meta-command %q\n", fields[0])
	}
	return false
}

func (r *REPL) showSymbols(w io.Writer) {
	names := make([]string, 0, len(r.machine.Symbols))
	for n := range r.machine.Symbols {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "%s = %s\n", n, displayWithKind(r.machine.Symbols[n]))
	}
}

func displayWithKind(v value.Value) string {
	return fmt.Sprintf("%s %s", v.TypeName(), v.Display())
}

func (r *REPL) showBuiltins(w io.Writer) {
	fmt.Fprintln(w, strings.Join(builtins.Names(), ", "))
}

// load handles both ".load <source-path>" (lex/parse/compile/run as if
// typed line by line) and ".load b|bytecode|binary <path>" (deserialize
// and run previously persisted instructions directly).
func (r *REPL) load(w io.Writer, args []string) {
	mode, path := "source", args[0]
	if len(args) >= 2 && (args[0] == "b" || args[0] == "bytecode" || args[0] == "binary") {
		mode, path = "bytecode", args[1]
	}

	if mode == "bytecode" {
		instrs, err := compiler.ReadFile(path)
		if err != nil {
			redColor.Fprintln(w, err.Error())
			return
		}
		outputs, err := r.machine.Run(instrs)
		if err != nil {
			redColor.Fprintln(w, err.Error())
			return
		}
		r.printOutputs(w, outputs)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		redColor.Fprintln(w, err.Error())
		return
	}
	p := parser.New(string(data), r.table)
	nodes, err := p.ParseProgram()
	if err != nil {
		redColor.Fprintln(w, vmerrors.Render(string(data), err))
		return
	}
	instrs, err := r.compiler.Compile(nodes)
	if err != nil {
		redColor.Fprintln(w, vmerrors.Render(string(data), err))
		return
	}
	outputs, err := r.machine.Run(instrs)
	if err != nil {
		redColor.Fprintln(w, err.Error())
		return
	}
	r.printOutputs(w, outputs)
}

func (r *REPL) printOutputs(w io.Writer, outputs []value.Value) {
	if len(outputs) == 0 {
		return
	}
	parts := make([]string, len(outputs))
	for i, v := range outputs {
		parts[i] = v.Display()
	}
	yellowColor.Fprintf(w, "Results: %s\n", strings.Join(parts, ", "))
}

