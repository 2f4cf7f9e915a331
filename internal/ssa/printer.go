package ssa

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// This file implements a textual dump of a finished Method, grounded on the
// teacher's disassembler (wazero's wasmdebug/ssa formatting, which renders
// one block per line group with a label, its phis, its body, and its
// terminator). fatih/color is used so piping a dump to a terminal highlights
// block labels and opcodes without disturbing output redirected to a file
// (color.NoColor is honored automatically when stdout isn't a TTY; Printer
// additionally exposes a Color field so a caller can force it either way,
// e.g. for golden-file tests).

// Printer renders a Method as human-readable text.
type Printer struct {
	Types TypeContext
	Color bool
}

// NewPrinter returns a Printer bound to types, with color following the
// terminal's auto-detected capability.
func NewPrinter(types TypeContext) *Printer {
	return &Printer{Types: types, Color: !color.NoColor}
}

var (
	labelColor = color.New(color.FgCyan, color.Bold)
	opColor    = color.New(color.FgYellow)
	dimColor   = color.New(color.FgHiBlack)
)

func (p *Printer) sprint(c *color.Color, s string) string {
	if !p.Color {
		return s
	}
	forced := *c
	forced.EnableColor()
	return forced.Sprint(s)
}

// Format renders m in full: its declaration, every block in creation order
// with its phis, body and terminator.
func (p *Printer) Format(m *Method) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", m.Decl)
	for i, param := range m.Params {
		fmt.Fprintf(&b, "  ; param %d = %s : %s\n", i, param.Value(), p.typeString(param.Type()))
	}
	for _, bb := range m.Blocks {
		p.formatBlock(&b, bb)
	}
	b.WriteString("}\n")
	return b.String()
}

func (p *Printer) formatBlock(b *strings.Builder, bb *BasicBlock) {
	label := fmt.Sprintf("%s:", blockLabel(bb))
	fmt.Fprintf(b, "%s", p.sprint(labelColor, label))
	if preds := bb.Predecessors(); len(preds) > 0 {
		names := make([]string, len(preds))
		for i, pr := range preds {
			names[i] = blockLabel(pr)
		}
		fmt.Fprintf(b, "%s", p.sprint(dimColor, "  ; preds: "+strings.Join(names, ", ")))
	}
	b.WriteByte('\n')

	for _, phi := range bb.Phis() {
		p.formatPhi(b, phi)
	}
	for _, instr := range bb.Instructions() {
		p.formatInstruction(b, instr)
	}
}

func blockLabel(bb *BasicBlock) string {
	if bb.Name() != "" {
		return fmt.Sprintf("%s_%d", bb.Name(), bb.ID())
	}
	return fmt.Sprintf("block%d", bb.ID())
}

func (p *Printer) typeString(t TypeRef) string {
	if p.Types == nil {
		return typeRefDebugString(t)
	}
	return p.Types.String(t)
}

func (p *Printer) formatPhi(b *strings.Builder, phi *Instruction) {
	args := make([]string, len(phi.phiArgs))
	for i, a := range phi.phiArgs {
		args[i] = fmt.Sprintf("%s: %s", blockLabel(a.pred), a.value)
	}
	fmt.Fprintf(b, "    %s = %s %s(%s)\n",
		phi.result, p.sprint(opColor, "phi"), p.typeString(phi.typ), strings.Join(args, ", "))
}

func (p *Printer) formatInstruction(b *strings.Builder, instr *Instruction) {
	op := p.sprint(opColor, instr.Opcode.String())
	line := p.instructionBody(instr, op)
	if instr.result.Valid() {
		fmt.Fprintf(b, "    %s = %s\n", instr.result, line)
	} else {
		fmt.Fprintf(b, "    %s\n", line)
	}
}

func (p *Printer) instructionBody(instr *Instruction, op string) string {
	switch instr.Opcode {
	case OpConstant:
		return fmt.Sprintf("%s %s %#x", op, instr.bvt, instr.raw)
	case OpNull, OpUndef:
		return fmt.Sprintf("%s %s", op, p.typeString(instr.typ))
	case OpSizeOf:
		return fmt.Sprintf("%s %s", op, p.typeString(instr.queryType))
	case OpWarpSize, OpLaneIdx:
		return op
	case OpGridDim, OpGroupDim:
		return fmt.Sprintf("%s %s", op, axisString(instr.dimAxis))
	case OpUnaryArith:
		return fmt.Sprintf("%s.%s %s%s", op, instr.unaryKind, instr.arg0, flagSuffix(instr.arithFlags))
	case OpBinaryArith:
		return fmt.Sprintf("%s.%s %s, %s%s", op, instr.binaryKind, instr.arg0, instr.arg1, flagSuffix(instr.arithFlags))
	case OpTernaryArith:
		return fmt.Sprintf("%s.%s %s, %s, %s%s", op, instr.ternaryKind, instr.arg0, instr.arg1, instr.arg2, flagSuffix(instr.arithFlags))
	case OpCompare:
		return fmt.Sprintf("%s.%s %s, %s", op, instr.cmpKind, instr.arg0, instr.arg1)
	case OpConvert:
		return fmt.Sprintf("%s %s -> %s", op, instr.arg0, p.typeString(instr.typ))
	case OpPredicate:
		return fmt.Sprintf("%s %s, %s, %s", op, instr.arg0, instr.arg1, instr.arg2)
	case OpGetField:
		return fmt.Sprintf("%s %s, %d", op, instr.arg0, instr.fieldIndex)
	case OpSetField:
		return fmt.Sprintf("%s %s, %d, %s", op, instr.arg0, instr.fieldIndex, instr.arg1)
	case OpCreateStructure:
		return fmt.Sprintf("%s %s", op, valueList(instr.args))
	case OpCreateArray:
		return fmt.Sprintf("%s %s", op, p.typeString(instr.typ))
	case OpGetArrayExtent:
		return fmt.Sprintf("%s %s, %d", op, instr.arg0, instr.fieldIndex)
	case OpGetArrayElement:
		return fmt.Sprintf("%s %s[%s]", op, instr.arg0, instr.args[0])
	case OpSetArrayElement:
		return fmt.Sprintf("%s %s[%s], %s", op, instr.arg0, instr.args[0], instr.arg1)
	case OpGetArrayLength:
		return fmt.Sprintf("%s %s", op, instr.arg0)
	case OpArrayAddress:
		return fmt.Sprintf("%s %s[%s]", op, instr.arg0, instr.args[0])
	case OpAtomicRMW:
		return fmt.Sprintf("%s.%s %s, %s%s", op, instr.atomicKind, instr.arg0, instr.arg1, flagSuffix(instr.arithFlags))
	case OpAtomicCAS:
		return fmt.Sprintf("%s %s, %s, %s", op, instr.arg0, instr.arg1, instr.arg2)
	case OpBarrier:
		return fmt.Sprintf("%s.%s", op, instr.barrierKind)
	case OpPredicateBarrier:
		return fmt.Sprintf("%s.%s %s", op, instr.barrierKind, instr.arg0)
	case OpBroadcast:
		return fmt.Sprintf("%s %s, %s", op, instr.arg0, instr.arg1)
	case OpWarpShuffle:
		return fmt.Sprintf("%s.%s %s, %s", op, instr.warpKind, instr.arg0, instr.arg1)
	case OpSubWarpShuffle:
		return fmt.Sprintf("%s.%s %s, %s, width=%s", op, instr.warpKind, instr.arg0, instr.arg1, instr.arg2)
	case OpWriteToOutput:
		return fmt.Sprintf("%s %s, %s", op, instr.arg0, instr.arg1)
	case OpCall:
		return fmt.Sprintf("%s %s(%s)", op, instr.callee.Decl.Name, valueList(instr.args))
	case OpReturn:
		return fmt.Sprintf("%s %s", op, valueList(instr.args))
	case OpBranch:
		return fmt.Sprintf("%s %s", op, blockLabel(instr.blockArg0))
	case OpIfBranch:
		return fmt.Sprintf("%s %s, %s, %s", op, instr.arg0, blockLabel(instr.blockArg0), blockLabel(instr.blockArg1))
	case OpSwitchBranch:
		targets := make([]string, len(instr.blockArgs))
		for i, t := range instr.blockArgs {
			targets[i] = blockLabel(t)
		}
		return fmt.Sprintf("%s %s [%s] -> [%s]", op, instr.arg0, valueList(instr.args), strings.Join(targets, ", "))
	case OpBuilderTerminator:
		return op
	default:
		return op
	}
}

func axisString(a DimAxis) string {
	switch a {
	case DimAxisX:
		return "x"
	case DimAxisY:
		return "y"
	case DimAxisZ:
		return "z"
	default:
		return "?"
	}
}

func flagSuffix(f ArithmeticFlags) string {
	if f.has(ArithmeticFlagUnsigned) {
		return " [unsigned]"
	}
	return ""
}

func valueList(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
