// Package legacyasm emits the legacy (shader model < 4) assembly token
// stream: one mnemonic per line, operands as register-class letters plus
// an optional writemask/swizzle suffix. Grounded on naga
// hlsl/storage.go's Writer idiom (a small line-buffering helper with
// writeLine/pushIndent/popIndent) adapted from HLSL text generation to
// this profile's token-stream text.
package legacyasm

import (
	"fmt"
	"strings"

	"github.com/gogpu/shaderc/backend"
	"github.com/gogpu/shaderc/diag"
	"github.com/gogpu/shaderc/ir"
)

// Writer accumulates emitted assembly lines.
type Writer struct {
	sb     strings.Builder
	indent int
}

func (w *Writer) writeLine(format string, args ...any) {
	w.sb.WriteString(strings.Repeat("    ", w.indent))
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

func (w *Writer) pushIndent() { w.indent++ }
func (w *Writer) popIndent()  { w.indent-- }

// Emitter implements backend.Emitter for legacy (major version < 4)
// profiles.
type Emitter struct{}

// Emit implements backend.Emitter.
func (Emitter) Emit(in *backend.Input) ([]byte, *diag.Result) {
	res := diag.NewResult()
	w := &Writer{}

	w.writeLine("%s", in.Profile.Name)
	w.writeLine("dcl_temps %d", in.TempRegs)
	for _, buf := range in.Buffers {
		w.writeLine("dcl_constantbuffer %s", buf.Register.String())
	}

	emitBlock(w, in.Context.Body, res)

	return []byte(w.sb.String()), res
}

func emitBlock(w *Writer, block *ir.Block, res *diag.Result) {
	for _, n := range block.Nodes() {
		emitNode(w, n, res)
	}
}

func emitNode(w *Writer, n *ir.Node, res *diag.Result) {
	switch n.Kind {
	case ir.KindConstant:
		// Literal values are carried in the const-register literal
		// table (regalloc.LiteralTable), not re-emitted per use.
	case ir.KindLoad:
		p := n.Payload.(*ir.LoadPayload)
		w.writeLine("mov %s, %s", n.Reg.String(), p.Src.Var.Reg.String())
	case ir.KindStore:
		p := n.Payload.(*ir.StorePayload)
		w.writeLine("mov %s, %s", p.Lhs.Var.Reg.String(), p.Rhs.Reg.String())
	case ir.KindExpr:
		emitExpr(w, n)
	case ir.KindSwizzle:
		p := n.Payload.(*ir.SwizzlePayload)
		w.writeLine("mov %s, %s.%s", n.Reg.String(), p.Src.Reg.String(), swizzleSuffix(p))
	case ir.KindConditional:
		p := n.Payload.(*ir.ConditionalPayload)
		w.writeLine("if_nz %s", p.Condition.Reg.String())
		w.pushIndent()
		emitBlock(w, p.Then, res)
		w.popIndent()
		if p.Else != nil && p.Else.Len() > 0 {
			w.writeLine("else")
			w.pushIndent()
			emitBlock(w, p.Else, res)
			w.popIndent()
		}
		w.writeLine("endif")
	case ir.KindLoop:
		p := n.Payload.(*ir.LoopPayload)
		w.writeLine("loop")
		w.pushIndent()
		emitBlock(w, p.Body, res)
		w.popIndent()
		w.writeLine("endloop")
	case ir.KindJump:
		emitJump(w, n)
	case ir.KindResourceLoad:
		emitResourceLoad(w, n)
	default:
		res.Errorf(diag.KindInvalidShader, n.Loc, "legacy assembly emitter: unhandled node kind %s", n.Kind)
	}
}

func emitExpr(w *Writer, n *ir.Node) {
	p := n.Payload.(*ir.ExprPayload)
	mnemonic := exprMnemonic(p.Op)
	args := []string{n.Reg.String()}
	for i := 0; i < p.Op.Arity(); i++ {
		args = append(args, p.Operands[i].Reg.String())
	}
	w.writeLine("%s %s", mnemonic, strings.Join(args, ", "))
}

// exprMnemonic maps an Op to its assembly mnemonic. Most ops already
// use the assembly-conventional short name via Op.String(); the dot
// product is the one case the original toolchain widens by operand
// count (dp3/dp4), which Op.String's generic "dot" can't express.
func exprMnemonic(op ir.Op) string {
	if op == ir.OpDot {
		return "dp4"
	}
	return op.String()
}

func swizzleSuffix(p *ir.SwizzlePayload) string {
	const names = "xyzw"
	var b strings.Builder
	for i := uint8(0); i < p.Width; i++ {
		b.WriteByte(names[p.Component(i)])
	}
	return b.String()
}

func emitJump(w *Writer, n *ir.Node) {
	p := n.Payload.(*ir.JumpPayload)
	switch p.Kind {
	case ir.JumpBreak:
		w.writeLine("break")
	case ir.JumpContinue:
		w.writeLine("continue")
	case ir.JumpDiscard:
		w.writeLine("texkill")
	case ir.JumpReturn:
		w.writeLine("ret")
	}
}

func emitResourceLoad(w *Writer, n *ir.Node) {
	p := n.Payload.(*ir.ResourceLoadPayload)
	mnemonic := "texld"
	switch p.Variant {
	case ir.ResourceSampleLevel:
		mnemonic = "texldl"
	case ir.ResourceSampleGrad:
		mnemonic = "texldd"
	case ir.ResourceGather:
		mnemonic = "texldgather"
	case ir.ResourceLoad:
		mnemonic = "texldl"
	}
	sampler := ""
	if p.Sampler.Var != nil {
		sampler = ", " + p.Sampler.Var.Reg.String()
	}
	w.writeLine("%s %s, %s, %s%s", mnemonic, n.Reg.String(), p.Coord.Reg.String(), p.Resource.Var.Reg.String(), sampler)
}
