// Command shaderdis dumps a compiler.Output's annotated IR in a
// human-readable listing: one line per node, grounded on spvdis's
// per-instruction "%result = %opcode %operands" print loop, adapted from
// decoding binary SPIR-V words to walking our own already-structured
// ir.Node tree.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gogpu/shaderc/compiler"
	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/profile"
	"github.com/gogpu/shaderc/types"
)

func main() {
	var (
		profileName = flag.String("profile", "ps_5_0", "target profile (e.g. ps_5_0, vs_3_0, cs_5_0)")
		entryName   = flag.String("entry", "main", "entry point name")
	)
	flag.Parse()

	ctx := buildDemoEntryPoint(*entryName)

	out, res := compiler.Compile(ctx, *profileName, 0, nil)
	for _, d := range res.Diagnostics() {
		log.Print(d.Error())
	}
	if res.HasErrors() {
		log.Fatalf("compilation failed: %s", res.Summary())
	}

	prof, _ := profile.Lookup(*profileName)
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	fmt.Fprintf(w, "; profile %s (stage=%s major=%d minor=%d)\n", prof.Name, prof.Stage, prof.Major, prof.Minor)
	fmt.Fprintf(w, "; entry %s\n", out.Context.EntryName)
	fmt.Fprintf(w, "; temp registers: %d\n\n", out.Alloc.Temps.Count())

	dumpVariables(w, out.Context)
	fmt.Fprintln(w)
	dumpBlock(w, out.Context.Body, 0)
}

func dumpVariables(w *bufio.Writer, ctx *ir.Context) {
	for _, v := range ctx.Variables {
		fmt.Fprintf(w, "%s = var %s%s\n", v.Name, roleString(v), regString(v.Reg))
	}
	for _, p := range ctx.Params {
		fmt.Fprintf(w, "%s = param %s%s\n", p.Name, roleString(p), regString(p.Reg))
	}
	for _, b := range ctx.Buffers {
		fmt.Fprintf(w, "%s = cbuffer %s\n", b.Name, regString(b.Register))
	}
}

func roleString(v *ir.Variable) string {
	switch {
	case v.IsUniform:
		return "uniform"
	case v.IsInputSemantic:
		return "input " + v.Semantic.Name
	case v.IsOutputSemantic:
		return "output " + v.Semantic.Name
	default:
		return "local"
	}
}

func regString(r ir.Register) string {
	if !r.Allocated {
		return ""
	}
	return " @ " + r.String()
}

func dumpBlock(w *bufio.Writer, b *ir.Block, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "    "
	}
	for _, n := range b.Nodes() {
		dumpNode(w, n, indent, depth)
	}
}

func dumpNode(w *bufio.Writer, n *ir.Node, indent string, depth int) {
	switch n.Kind {
	case ir.KindConstant:
		fmt.Fprintf(w, "%s%s = constant\n", indent, n.Reg.String())
	case ir.KindLoad:
		p := n.Payload.(*ir.LoadPayload)
		fmt.Fprintf(w, "%s%s = load %s\n", indent, n.Reg.String(), p.Src.Var.Name)
	case ir.KindStore:
		p := n.Payload.(*ir.StorePayload)
		fmt.Fprintf(w, "%sstore %s, %s\n", indent, p.Lhs.Var.Name, p.Rhs.Reg.String())
	case ir.KindExpr:
		p := n.Payload.(*ir.ExprPayload)
		fmt.Fprintf(w, "%s%s = %s", indent, n.Reg.String(), p.Op)
		for i := 0; i < p.Op.Arity(); i++ {
			fmt.Fprintf(w, " %s", p.Operands[i].Reg.String())
		}
		fmt.Fprintln(w)
	case ir.KindSwizzle:
		p := n.Payload.(*ir.SwizzlePayload)
		fmt.Fprintf(w, "%s%s = swizzle %s\n", indent, n.Reg.String(), p.Src.Reg.String())
	case ir.KindConditional:
		p := n.Payload.(*ir.ConditionalPayload)
		fmt.Fprintf(w, "%sif %s\n", indent, p.Condition.Reg.String())
		dumpBlock(w, p.Then, depth+1)
		if p.Else != nil && p.Else.Len() > 0 {
			fmt.Fprintf(w, "%selse\n", indent)
			dumpBlock(w, p.Else, depth+1)
		}
	case ir.KindLoop:
		p := n.Payload.(*ir.LoopPayload)
		fmt.Fprintf(w, "%sloop\n", indent)
		dumpBlock(w, p.Body, depth+1)
	case ir.KindJump:
		p := n.Payload.(*ir.JumpPayload)
		fmt.Fprintf(w, "%s%s\n", indent, p.Kind)
	case ir.KindResourceLoad:
		fmt.Fprintf(w, "%s%s = resource-load\n", indent, n.Reg.String())
	}
}

// buildDemoEntryPoint constructs the same small passthrough program
// shaderccli compiles, so the two tools can be exercised side by side
// without a front end that turns shader source text into IR.
func buildDemoEntryPoint(entryName string) *ir.Context {
	ctx := ir.NewContext()

	tint := &ir.Variable{Name: "tint", Type: types.NewVector(types.BaseFloat, 4), Storage: ir.StorageUniform}
	ctx.DeclareVariable(tint)

	out := &ir.Variable{Name: "color", Type: types.NewVector(types.BaseFloat, 4), Storage: ir.StorageOut, Semantic: ir.Semantic{Name: "SV_Target"}}
	ctx.DeclareParam(out)

	load := ctx.NewNode(ir.KindLoad, tint.Type, &ir.LoadPayload{Src: ir.Deref{Var: tint}})
	store := ctx.NewNode(ir.KindStore, nil, &ir.StorePayload{Lhs: ir.Deref{Var: out}, Rhs: load, Writemask: ir.MaskAll})
	ret := ctx.NewNode(ir.KindJump, nil, &ir.JumpPayload{Kind: ir.JumpReturn})
	ctx.Body.Append(load)
	ctx.Body.Append(store)
	ctx.Body.Append(ret)

	ctx.EntryName = entryName
	return ctx
}
