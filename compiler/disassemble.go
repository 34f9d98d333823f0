package compiler

import (
	"fmt"
	"strings"

	"vm-calc/ir"
)

// Disassemble renders an instruction vector as one line per cell, in the
// spirit of nilan's DiassembleBytecode: an index-prefixed, human-readable
// listing used by the --show-instructions CLI flag.
func Disassemble(instrs []ir.Instruction) string {
	var sb strings.Builder
	for i, in := range instrs {
		fmt.Fprintf(&sb, "%04d  %-16s", i, in.Op)
		switch in.Op {
		case ir.Load:
			fmt.Fprintf(&sb, "%g", in.Flt)
		case ir.LoadString:
			fmt.Fprintf(&sb, "%q", in.Str)
		case ir.Binary, ir.Unary, ir.ReloadSymbolOp, ir.OData:
			fmt.Fprintf(&sb, "%s", in.Op2)
		case ir.LoadSymbolName, ir.LoadSymbol, ir.ReloadSymbol, ir.CallSymbol, ir.Delete, ir.FunctionDecl, ir.ArgumentName:
			fmt.Fprintf(&sb, "%s", in.Name)
		case ir.FunctionCall:
			if in.ByValue {
				fmt.Fprintf(&sb, "<value-call> argc=%d", in.Num)
			} else {
				fmt.Fprintf(&sb, "%s argc=%d", in.Name, in.Num)
			}
		case ir.PartialCall:
			fmt.Fprintf(&sb, "%s argc=%d", in.Name, in.Num)
		case ir.ReloadIndex:
			fmt.Fprintf(&sb, "%s depth=%d op=%s", in.Name, in.Num, in.Op2)
		case ir.UData:
			fmt.Fprintf(&sb, "%d", in.Num)
		case ir.Array, ir.Print:
			fmt.Fprintf(&sb, "%d", in.Num)
		case ir.Output:
			if in.Num != 0 {
				fmt.Fprintf(&sb, "(silent)")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
