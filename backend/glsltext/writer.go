// Package glsltext is the experimental textual alternative-shading
// emitter named in spec.md §1 and DESIGN NOTES (ii): it consumes the
// same annotated IR as the other back ends but only special-cases a
// small, well-understood opcode subset, returning InvalidShader for
// anything else rather than crashing. Grounded on naga glsl/writer.go's
// Writer shape (strings.Builder output, writeLine/writeIndent, explicit
// per-node error propagation instead of panics).
package glsltext

import (
	"fmt"
	"strings"

	"github.com/gogpu/shaderc/backend"
	"github.com/gogpu/shaderc/diag"
	"github.com/gogpu/shaderc/ir"
)

// Writer accumulates emitted GLSL source text.
type Writer struct {
	out    strings.Builder
	indent int
}

func (w *Writer) writeLine(format string, args ...any) {
	w.writeIndent()
	fmt.Fprintf(&w.out, format, args...)
	w.out.WriteByte('\n')
}

func (w *Writer) writeIndent() {
	w.out.WriteString(strings.Repeat("  ", w.indent))
}

// Emitter implements backend.Emitter for the experimental textual back
// end.
type Emitter struct{}

// Emit implements backend.Emitter. It never panics: every opcode this
// writer doesn't special-case becomes an InvalidShader diagnostic and
// emission continues so the caller sees every unsupported construct in
// one pass, not just the first.
func (Emitter) Emit(in *backend.Input) ([]byte, *diag.Result) {
	res := diag.NewResult()
	w := &Writer{}

	w.writeLine("#version 450")
	w.writeLine("void main() {")
	w.indent++
	emitBlock(w, in.Context.Body, res)
	w.indent--
	w.writeLine("}")

	return []byte(w.out.String()), res
}

func emitBlock(w *Writer, block *ir.Block, res *diag.Result) {
	for _, n := range block.Nodes() {
		emitNode(w, n, res)
	}
}

func emitNode(w *Writer, n *ir.Node, res *diag.Result) {
	switch n.Kind {
	case ir.KindConstant:
		// Literals are inlined at their use sites below; a bare
		// constant node needs no statement of its own.
	case ir.KindLoad:
		p := n.Payload.(*ir.LoadPayload)
		w.writeLine("%s = %s;", varName(n), varName2(p.Src.Var))
	case ir.KindStore:
		p := n.Payload.(*ir.StorePayload)
		w.writeLine("%s = %s;", varName2(p.Lhs.Var), varName(p.Rhs))
	case ir.KindExpr:
		emitExpr(w, n, res)
	case ir.KindSwizzle:
		p := n.Payload.(*ir.SwizzlePayload)
		w.writeLine("%s = %s.%s;", varName(n), varName(p.Src), swizzleSuffix(p))
	case ir.KindConditional:
		p := n.Payload.(*ir.ConditionalPayload)
		w.writeLine("if (%s) {", varName(p.Condition))
		w.indent++
		emitBlock(w, p.Then, res)
		w.indent--
		if p.Else != nil && p.Else.Len() > 0 {
			w.writeLine("} else {")
			w.indent++
			emitBlock(w, p.Else, res)
			w.indent--
		}
		w.writeLine("}")
	case ir.KindLoop:
		p := n.Payload.(*ir.LoopPayload)
		w.writeLine("while (true) {")
		w.indent++
		emitBlock(w, p.Body, res)
		w.indent--
		w.writeLine("}")
	case ir.KindJump:
		emitJump(w, n, res)
	default:
		res.Errorf(diag.KindInvalidShader, n.Loc, "glsltext: unhandled opcode %s", n.Kind)
	}
}

var glslOpSymbol = map[ir.Op]string{
	ir.OpAdd: "+", ir.OpSub: "-", ir.OpMul: "*", ir.OpDiv: "/",
	ir.OpLt: "<", ir.OpGt: ">", ir.OpLe: "<=", ir.OpGe: ">=",
	ir.OpEq: "==", ir.OpNe: "!=", ir.OpLAnd: "&&", ir.OpLOr: "||",
}

var glslOpFunc = map[ir.Op]string{
	ir.OpNeg: "-", ir.OpAbs: "abs", ir.OpSign: "sign", ir.OpRcp: "1.0/",
	ir.OpSqrt: "sqrt", ir.OpRsq: "inversesqrt", ir.OpSin: "sin", ir.OpCos: "cos",
	ir.OpDot: "dot", ir.OpCrs: "cross", ir.OpMin: "min", ir.OpMax: "max",
	ir.OpPow: "pow", ir.OpSat: "clamp",
}

func emitExpr(w *Writer, n *ir.Node, res *diag.Result) {
	p := n.Payload.(*ir.ExprPayload)
	if sym, ok := glslOpSymbol[p.Op]; ok {
		w.writeLine("%s = %s %s %s;", varName(n), varName(p.Operands[0]), sym, varName(p.Operands[1]))
		return
	}
	if fn, ok := glslOpFunc[p.Op]; ok {
		args := make([]string, 0, p.Op.Arity())
		for i := 0; i < p.Op.Arity(); i++ {
			args = append(args, varName(p.Operands[i]))
		}
		w.writeLine("%s = %s(%s);", varName(n), fn, strings.Join(args, ", "))
		return
	}
	res.Errorf(diag.KindInvalidShader, n.Loc, "glsltext: unhandled opcode %s", p.Op)
}

func emitJump(w *Writer, n *ir.Node, res *diag.Result) {
	p := n.Payload.(*ir.JumpPayload)
	switch p.Kind {
	case ir.JumpBreak:
		w.writeLine("break;")
	case ir.JumpContinue:
		w.writeLine("continue;")
	case ir.JumpReturn:
		w.writeLine("return;")
	default:
		res.Errorf(diag.KindInvalidShader, n.Loc, "glsltext: unhandled jump kind")
	}
}

func swizzleSuffix(p *ir.SwizzlePayload) string {
	const names = "xyzw"
	var b strings.Builder
	for i := uint8(0); i < p.Width; i++ {
		b.WriteByte(names[p.Component(i)])
	}
	return b.String()
}

// varName names a node's result by its temp-register string, falling
// back to a synthetic name when no register has been allocated (e.g.
// during unit testing of the writer in isolation).
func varName(n *ir.Node) string {
	if n == nil {
		return "0.0"
	}
	if n.Reg.Allocated {
		return regIdent(n.Reg.String())
	}
	return fmt.Sprintf("_t%p", n)
}

func varName2(v *ir.Variable) string {
	if v == nil {
		return "0.0"
	}
	if v.Reg.Allocated {
		return regIdent(v.Reg.String())
	}
	return v.Name
}

// regIdent turns a register's debug string ("c7.xyz") into a valid GLSL
// identifier ("_c7_xyz").
func regIdent(reg string) string {
	var b strings.Builder
	b.WriteByte('_')
	for _, c := range reg {
		if c == '.' || c == '-' {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
