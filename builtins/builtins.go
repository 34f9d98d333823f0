// Package builtins is the fixed registry of host-provided math functions
// available to every vm-calc program. The registration pattern (Builtin
// entries registered in init into a map keyed by name) follows the
// builtin-table convention used for GoMix's object methods, adapted here to
// vm-calc's flat (no-receiver) builtin call shape.
package builtins

import (
	"math"
	"sort"
)

// Builtin is one entry in the registry: a name, its fixed arity, and the
// Go function backing it. Every builtin (other than print, which the
// compiler and VM special-case) operates purely on float64 operands.
type Builtin struct {
	Name  string
	Arity int
	Fn    func(args []float64) float64
}

var registry = map[string]Builtin{}

func register(name string, arity int, fn func(args []float64) float64) {
	registry[name] = Builtin{Name: name, Arity: arity, Fn: fn}
}

func init() {
	register("abs", 1, func(a []float64) float64 { return math.Abs(a[0]) })
	register("sqrt", 1, func(a []float64) float64 { return math.Sqrt(a[0]) })
	register("floor", 1, func(a []float64) float64 { return math.Floor(a[0]) })
	register("ceil", 1, func(a []float64) float64 { return math.Ceil(a[0]) })
	register("round", 1, func(a []float64) float64 { return math.Round(a[0]) })
	register("trunc", 1, func(a []float64) float64 { return math.Trunc(a[0]) })
	register("sin", 1, func(a []float64) float64 { return math.Sin(a[0]) })
	register("cos", 1, func(a []float64) float64 { return math.Cos(a[0]) })
	register("tan", 1, func(a []float64) float64 { return math.Tan(a[0]) })
	register("asin", 1, func(a []float64) float64 { return math.Asin(a[0]) })
	register("acos", 1, func(a []float64) float64 { return math.Acos(a[0]) })
	register("atan", 1, func(a []float64) float64 { return math.Atan(a[0]) })
	register("log", 1, func(a []float64) float64 { return math.Log(a[0]) })
	register("log2", 1, func(a []float64) float64 { return math.Log2(a[0]) })
	register("log10", 1, func(a []float64) float64 { return math.Log10(a[0]) })
	register("exp", 1, func(a []float64) float64 { return math.Exp(a[0]) })
	register("pow", 2, func(a []float64) float64 { return math.Pow(a[0], a[1]) })
	register("min", 2, func(a []float64) float64 { return math.Min(a[0], a[1]) })
	register("max", 2, func(a []float64) float64 { return math.Max(a[0], a[1]) })
	register("hypot", 2, func(a []float64) float64 { return math.Hypot(a[0], a[1]) })
}

// Lookup returns the builtin registered under name, if any. "print" is
// deliberately not a registry entry: it is variadic and any-typed, handled
// directly by the compiler and VM rather than through this fixed-arity,
// float64-only table.
func Lookup(name string) (Builtin, bool) {
	b, ok := registry[name]
	return b, ok
}

// IsReserved reports whether name is a builtin or the special "print" form
// and therefore can never be declared, assigned, or deleted as a user
// symbol.
func IsReserved(name string) bool {
	if name == "print" {
		return true
	}
	_, ok := registry[name]
	return ok
}

// Names returns the builtin names in sorted order, used by the REPL's
// ".show builtin" meta-command.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
