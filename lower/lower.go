// Package lower implements semantic lowering (spec.md §4.4): splitting
// uniform and in/out-semantic variables into an external-binding half and
// a mutable-temp half, connected by a prologue/epilogue copy.
package lower

import (
	"fmt"

	"github.com/gogpu/shaderc/diag"
	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/types"
)

// Lower rewrites ctx's entry point in place: every uniform variable, every
// in/out parameter, and the return value (when ctx.ReturnTemp is set)
// gains a temp half that the rest of the body operates on, bridged by a
// generated load/store pair at the appropriate end of the block.
//
// Object-typed parameters are always treated as uniform, per spec.md
// §4.4's last sentence.
func Lower(ctx *ir.Context, res *diag.Result) {
	l := &lowerer{ctx: ctx, res: res}

	var prologue []*ir.Node
	for _, v := range ctx.Variables {
		if v.Storage&ir.StorageUniform != 0 {
			prologue = append(prologue, l.uniformCopy(v)...)
		}
	}

	var epilogue []*ir.Node
	for _, p := range ctx.Params {
		if p.Type.Class == types.ClassObject {
			p.Storage |= ir.StorageUniform
			p.IsUniform = true
			prologue = append(prologue, l.uniformCopy(p)...)
			continue
		}
		if p.Storage&ir.StorageIn != 0 {
			p.IsInputSemantic = true
			prologue = append(prologue, l.inputCopy(p)...)
		}
		if p.Storage&ir.StorageOut != 0 {
			p.IsOutputSemantic = true
			p.LastRead = ir.InfiniteLastRead
			epilogue = append(epilogue, l.outputCopy(p)...)
		}
	}

	if ctx.ReturnTemp != nil && ctx.ReturnType != nil {
		ret := &ir.Variable{
			Name:             semanticTempName("output", ctx.ReturnSemantic),
			Type:             ctx.ReturnType,
			Storage:          ir.StorageOut,
			Semantic:         ctx.ReturnSemantic,
			IsOutputSemantic: true,
			LastRead:         ir.InfiniteLastRead,
		}
		ctx.DeclareVariable(ret)
		epilogue = append(epilogue, l.copyFields(ctx.ReturnTemp, ret, loadStore)...)
	}

	if len(prologue) > 0 {
		ctx.Body.PrependAll(prologue)
	}
	if len(epilogue) > 0 {
		insertBeforeReturn(ctx.Body, epilogue)
	}
}

type lowerer struct {
	ctx *ir.Context
	res *diag.Result
}

// uniformCopy implements prepend_uniform_copy: temp = load(uniform), with
// every existing use of v redirected to temp. Per hlsl_codegen.c, the
// synthetic name goes on the in-body temp half, not the external one, so
// that shader reflection data reports the uniform under its original
// name.
func (l *lowerer) uniformCopy(v *ir.Variable) []*ir.Node {
	temp := l.newPlainTemp(v)
	temp.Name = "<temp-" + v.Name + ">"
	rewriteVar(l.ctx.Body, v, temp)
	v.IsUniform = true
	v.FirstWrite = 1
	return l.copyFields(v, temp, loadStore)
}

// inputCopy implements prepend_input_copy / prepend_input_struct_copy:
// temp = load(external), with uses redirected to temp. Struct-typed
// parameters are validated and copied field by field. Per
// hlsl_codegen.c, the synthetic name goes on the external semantic-bound
// half (v), keyed by semantic name+index; the in-body temp keeps v's
// original name.
func (l *lowerer) inputCopy(v *ir.Variable) []*ir.Node {
	temp := l.newPlainTemp(v)
	rewriteVar(l.ctx.Body, v, temp)
	v.FirstWrite = 1
	l.checkSemantics(v)
	v.Name = semanticTempName("input", v.Semantic)
	return l.copyFields(v, temp, loadStore)
}

// outputCopy implements append_output_copy / append_output_struct_copy:
// external = load(temp), appended at the end of the block. v itself
// remains the name the body writes through until it is rewritten here,
// so temp is the freshly declared in-body mutable half (keeping v's
// original name) and v becomes the semantic-bound external half, renamed
// per hlsl_codegen.c's "<output-SEM><IDX>" convention.
func (l *lowerer) outputCopy(v *ir.Variable) []*ir.Node {
	temp := l.newPlainTemp(v)
	rewriteVar(l.ctx.Body, v, temp)
	l.checkSemantics(v)
	v.Name = semanticTempName("output", v.Semantic)
	return l.copyFields(temp, v, loadStore)
}

// newPlainTemp declares a fresh variable sharing v's type/location and,
// for now, its name; callers rename either it or v afterward to match
// hlsl_codegen.c's synthetic-name placement.
func (l *lowerer) newPlainTemp(v *ir.Variable) *ir.Variable {
	temp := &ir.Variable{Name: v.Name, Type: v.Type, Loc: v.Loc}
	l.ctx.DeclareVariable(temp)
	return temp
}

// semanticTempName renders the "<input-SEMIDX>"/"<output-SEMIDX>" names
// prepend_input_copy/append_output_copy synthesize for the external half
// of a semantic-bound parameter, e.g. "<input-TEXCOORD0>".
func semanticTempName(kind string, sem ir.Semantic) string {
	return fmt.Sprintf("<%s-%s%d>", kind, sem.Name, sem.Index)
}

type copyDirection int

const loadStore copyDirection = 0

// copyFields generates one load(from,offset)+store(to,offset,mask) pair
// per leaf field of from's type (itself, if not a struct), so that
// struct copies carry precise per-field offsets (spec.md §4.4).
func (l *lowerer) copyFields(from, to *ir.Variable, _ copyDirection) []*ir.Node {
	leaves := flatten(from.Type, 0)
	nodes := make([]*ir.Node, 0, len(leaves)*2)
	for _, leaf := range leaves {
		off := l.constUint(leaf.offset)
		var offCopy *ir.Node
		if off != nil {
			offCopy = l.constUint(leaf.offset)
		}
		load := l.ctx.NewNode(ir.KindLoad, leaf.typ, &ir.LoadPayload{Src: ir.Deref{Var: from, Offset: off}})
		store := l.ctx.NewNode(ir.KindStore, nil, &ir.StorePayload{
			Lhs:       ir.Deref{Var: to, Offset: offCopy},
			Rhs:       load,
			Writemask: maskForWidth(leaf.typ.ComponentCount()),
		})
		nodes = append(nodes, load, store)
	}
	return nodes
}

func (l *lowerer) constUint(offset uint32) *ir.Node {
	if offset == 0 {
		return nil
	}
	return l.ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseUint), &ir.ConstantPayload{
		Components: []ir.ConstantComponent{{Uint: offset}},
	})
}

// checkSemantics recurses into v's type and reports MissingSemantic for
// every leaf field (or the variable itself, if scalar-shaped) that
// carries no semantic name.
func (l *lowerer) checkSemantics(v *ir.Variable) {
	if v.Type.Class != types.ClassStruct {
		if v.Semantic.IsZero() {
			l.res.Errorf(diag.KindMissingSemantic, v.Loc, "%s has no semantic", v.Name)
		}
		return
	}
	l.checkStructSemantics(v.Type, v.Loc, v.Name)
}

func (l *lowerer) checkStructSemantics(t *types.Type, loc diag.Location, path string) {
	for _, f := range t.Fields {
		fieldPath := path + "." + f.Name
		if f.Type.Class == types.ClassStruct {
			l.checkStructSemantics(f.Type, loc, fieldPath)
			continue
		}
		if f.Semantic == "" {
			l.res.Errorf(diag.KindMissingSemantic, loc, "%s has no semantic", fieldPath)
		}
	}
}

type leaf struct {
	typ    *types.Type
	offset uint32
}

// flatten returns every non-struct leaf field of t (or {t, 0} itself, if
// t is not a struct), with offsets accumulated in register-slot units
// from types.Type.RegSize/Field.RegOffset (spec.md §4.4 "field offsets
// are propagated so the inserted copies use precise ... offsets").
func flatten(t *types.Type, base uint32) []leaf {
	if t.Class != types.ClassStruct {
		return []leaf{{typ: t, offset: base}}
	}
	var out []leaf
	for _, f := range t.Fields {
		out = append(out, flatten(f.Type, base+f.RegOffset)...)
	}
	return out
}

func maskForWidth(n uint32) uint8 {
	switch n {
	case 1:
		return ir.MaskX
	case 2:
		return ir.MaskX | ir.MaskY
	case 3:
		return ir.MaskX | ir.MaskY | ir.MaskZ
	default:
		return ir.MaskAll
	}
}

// rewriteVar redirects every Deref referencing from, anywhere in body
// (recursively into conditional/loop sub-blocks), to to instead.
func rewriteVar(body *ir.Block, from, to *ir.Variable) {
	body.Walk(func(n *ir.Node) bool {
		switch n.Kind {
		case ir.KindLoad:
			p := n.Payload.(*ir.LoadPayload)
			if p.Src.Var == from {
				p.Src.Var = to
			}
		case ir.KindStore:
			p := n.Payload.(*ir.StorePayload)
			if p.Lhs.Var == from {
				p.Lhs.Var = to
			}
		case ir.KindResourceLoad:
			p := n.Payload.(*ir.ResourceLoadPayload)
			if p.Resource.Var == from {
				p.Resource.Var = to
			}
			if p.Sampler.Var == from {
				p.Sampler.Var = to
			}
		}
		return true
	})
}

// insertBeforeReturn splices nodes immediately before the block's
// trailing return jump, or appends them at the end if the block does not
// end in one.
func insertBeforeReturn(body *ir.Block, nodes []*ir.Node) {
	all := body.Nodes()
	if len(all) > 0 {
		last := all[len(all)-1]
		if last.Kind == ir.KindJump && last.Payload.(*ir.JumpPayload).Kind == ir.JumpReturn {
			for _, n := range nodes {
				body.InsertBefore(last, n)
			}
			return
		}
	}
	for _, n := range nodes {
		body.Append(n)
	}
}
