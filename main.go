// Command vm-calc is the CLI entry point: compile-and-run, bytecode
// persistence, AST/instruction inspection, and the interactive REPL, all
// sharing the same lexer/parser/compiler/vm pipeline.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vm-calc/ast"
	"vm-calc/compiler"
	"vm-calc/parser"
	"vm-calc/repl"
	"vm-calc/value"
	"vm-calc/vm"
	"vm-calc/vmerrors"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("vm-calc", flag.ContinueOnError)
	var (
		runPath       string
		runBinaryPath string
		writeBinary   string
		showParsed    string
		showInstr     string
		text          string
		replFlag      bool
	)
	fs.StringVar(&runPath, "run", "", "compile and execute a source file")
	fs.StringVar(&runPath, "r", "", "shorthand for --run")
	fs.StringVar(&runBinaryPath, "run-binary", "", "compile a source file, write its .bin sibling, and execute it")
	fs.StringVar(&runBinaryPath, "b", "", "shorthand for --run-binary")
	fs.StringVar(&writeBinary, "write-binary", "", "compile a source file and serialize its instructions")
	fs.StringVar(&writeBinary, "w", "", "shorthand for --write-binary")
	fs.StringVar(&showParsed, "show-parsed", "", "print the AST for a source file")
	fs.StringVar(&showParsed, "p", "", "shorthand for --show-parsed")
	fs.StringVar(&showInstr, "show-instructions", "", "print the compiled instructions for a source file")
	fs.StringVar(&showInstr, "i", "", "shorthand for --show-instructions")
	fs.StringVar(&text, "text", "", "run a literal source string")
	fs.StringVar(&text, "t", "", "shorthand for --text")
	fs.BoolVar(&replFlag, "repl", false, "enter the REPL")
	fs.BoolVar(&replFlag, "l", false, "shorthand for --repl")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	modes := map[string]bool{
		"run":               runPath != "",
		"run-binary":        runBinaryPath != "",
		"write-binary":      writeBinary != "",
		"show-parsed":       showParsed != "",
		"show-instructions": showInstr != "",
		"text":              text != "",
		"repl":              replFlag,
	}
	var chosen []string
	for name, set := range modes {
		if set {
			chosen = append(chosen, name)
		}
	}
	if len(chosen) > 1 {
		fmt.Fprintf(os.Stderr, "vm-calc: mutually exclusive flags given: %s\n", strings.Join(chosen, ", "))
		return 2
	}

	switch {
	case runPath != "":
		return runSourceFile(runPath)
	case runBinaryPath != "":
		return runBinary(runBinaryPath)
	case writeBinary != "":
		return writeBinaryFile(writeBinary, fs.Args())
	case showParsed != "":
		return showParsedFile(showParsed)
	case showInstr != "":
		return showInstructionsFile(showInstr)
	case text != "":
		return runText(text)
	default:
		return runREPL()
	}
}

// parseProgram parses src and treats the parser's NoResult sentinel (empty
// input) as "nothing to do" rather than an error, matching the REPL's own
// handling of a blank line.
func parseProgram(src string) ([]ast.Node, error) {
	nodes, err := parser.New(src, nil).ParseProgram()
	if perr, ok := err.(*parser.Error); ok && perr.Kind == parser.NoResult {
		return nil, nil
	}
	return nodes, err
}

func runREPL() int {
	if err := repl.New("vm-calc> ").Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runSourceFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return execute(string(src))
}

func runText(src string) int {
	return execute(src)
}

// execute lexes, parses, compiles and runs src against a fresh VM,
// printing every Output's Display in a single "Results:" line, matching
// the REPL's own presentation.
func execute(src string) int {
	nodes, err := parseProgram(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, vmerrors.Render(src, err))
		return 1
	}
	instrs, err := compiler.New().Compile(nodes)
	if err != nil {
		fmt.Fprintln(os.Stderr, vmerrors.Render(src, err))
		return 1
	}
	m := vm.New()
	m.Stdout = os.Stdout
	outputs, err := m.Run(instrs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printResults(outputs)
	return 0
}

func printResults(outputs []value.Value) {
	if len(outputs) == 0 {
		return
	}
	parts := make([]string, len(outputs))
	for i, v := range outputs {
		parts[i] = v.Display()
	}
	fmt.Printf("Results: %s\n", strings.Join(parts, ", "))
}

// runBinary compiles path, writes its .bin sibling, and executes the
// compiled instructions directly (rather than re-lexing/re-parsing), per
// the CLI contract for --run-binary.
func runBinary(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	nodes, err := parseProgram(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, vmerrors.Render(string(src), err))
		return 1
	}
	instrs, err := compiler.New().Compile(nodes)
	if err != nil {
		fmt.Fprintln(os.Stderr, vmerrors.Render(string(src), err))
		return 1
	}
	if err := compiler.WriteFile(binSibling(path), instrs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	m := vm.New()
	m.Stdout = os.Stdout
	outputs, err := m.Run(instrs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printResults(outputs)
	return 0
}

// writeBinaryFile compiles src and writes its serialized instructions to
// dst (args[0] if given, else src's .bin sibling), without executing them.
func writeBinaryFile(src string, rest []string) int {
	data, err := os.ReadFile(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	dst := binSibling(src)
	if len(rest) > 0 {
		dst = rest[0]
	}
	nodes, err := parseProgram(string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, vmerrors.Render(string(data), err))
		return 1
	}
	instrs, err := compiler.New().Compile(nodes)
	if err != nil {
		fmt.Fprintln(os.Stderr, vmerrors.Render(string(data), err))
		return 1
	}
	if err := compiler.WriteFile(dst, instrs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func binSibling(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".bin"
}

func showParsedFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	nodes, err := parseProgram(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, vmerrors.Render(string(src), err))
		return 1
	}
	dump, err := ast.Dump(nodes)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(dump)
	return 0
}

func showInstructionsFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	nodes, err := parseProgram(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, vmerrors.Render(string(src), err))
		return 1
	}
	instrs, err := compiler.New().Compile(nodes)
	if err != nil {
		fmt.Fprintln(os.Stderr, vmerrors.Render(string(src), err))
		return 1
	}
	fmt.Print(compiler.Disassemble(instrs))
	return 0
}
