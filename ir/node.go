package ir

import (
	"github.com/gogpu/shaderc/diag"
	"github.com/gogpu/shaderc/types"
)

// Kind discriminates the instruction-node payload, per spec.md §3. Every
// pass matches exhaustively on Kind (DESIGN NOTES "polymorphism over node
// kinds": a tagged variant instead of virtual dispatch).
type Kind uint8

const (
	KindConstant Kind = iota
	KindLoad
	KindStore
	KindExpr
	KindSwizzle
	KindConditional
	KindLoop
	KindJump
	KindResourceLoad
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindLoad:
		return "load"
	case KindStore:
		return "store"
	case KindExpr:
		return "expr"
	case KindSwizzle:
		return "swizzle"
	case KindConditional:
		return "conditional"
	case KindLoop:
		return "loop"
	case KindJump:
		return "jump"
	case KindResourceLoad:
		return "resource-load"
	default:
		return "unknown"
	}
}

// Payload is implemented by one pointer-typed struct per Kind, so that a
// Node's operand fields remain directly addressable (and mutable in
// place) after being boxed in the interface.
type Payload interface {
	payload() Kind
}

// Deref is a variable reference, with an optional dynamically-computed
// scalar uint offset (in register components). A nil Offset, or one whose
// node is a Constant, may be statically resolved by copy propagation.
type Deref struct {
	Var    *Variable
	Offset *Node
}

// StaticOffset returns the constant component offset of d, and true, if
// d.Offset is nil (offset 0) or a resolvable constant node.
func (d Deref) StaticOffset() (uint32, bool) {
	if d.Offset == nil {
		return 0, true
	}
	if d.Offset.Kind != KindConstant {
		return 0, false
	}
	c, _ := d.Offset.Payload.(*ConstantPayload)
	if c == nil || len(c.Components) == 0 {
		return 0, false
	}
	return c.Components[0].Uint, true
}

// ConstantComponent holds one component of a Constant node's value, per
// spec.md §3 ("value (per-component: bool/half/float/double/int/uint)").
type ConstantComponent struct {
	Bool   bool
	Half   float32
	Float  float32
	Double float64
	Int    int32
	Uint   uint32
}

// ConstantPayload is the payload of a KindConstant node.
type ConstantPayload struct {
	Components []ConstantComponent
}

func (*ConstantPayload) payload() Kind { return KindConstant }

// LoadPayload is the payload of a KindLoad node.
type LoadPayload struct {
	Src Deref
}

func (*LoadPayload) payload() Kind { return KindLoad }

// StorePayload is the payload of a KindStore node.
type StorePayload struct {
	Lhs       Deref
	Rhs       *Node
	Writemask uint8
}

func (*StorePayload) payload() Kind { return KindStore }

// ExprPayload is the payload of a KindExpr node: op plus 1-3 operands.
type ExprPayload struct {
	Op       Op
	Operands [3]*Node
}

func (*ExprPayload) payload() Kind { return KindExpr }

// SwizzlePayload is the payload of a KindSwizzle node: an 8-bit,
// 2-bits-per-component permutation of up to 4 source components.
type SwizzlePayload struct {
	Src         *Node
	Permutation uint8
	Width       uint8
}

// Component returns the source component index selected for output
// component i (0-based), per the 2-bits-per-component encoding.
func (s *SwizzlePayload) Component(i uint8) uint8 {
	return (s.Permutation >> (i * 2)) & 0x3
}

// MakeSwizzlePermutation packs up to 4 component indices (each 0-3) into
// the 2-bits-per-component encoding.
func MakeSwizzlePermutation(indices ...uint8) uint8 {
	var p uint8
	for i, idx := range indices {
		p |= (idx & 0x3) << (uint(i) * 2)
	}
	return p
}

func (*SwizzlePayload) payload() Kind { return KindSwizzle }

// ConditionalPayload is the payload of a KindConditional node.
type ConditionalPayload struct {
	Condition *Node
	Then      *Block
	Else      *Block
}

func (*ConditionalPayload) payload() Kind { return KindConditional }

// LoopPayload is the payload of a KindLoop node. NextIndex is the
// post-loop instruction index, set by liveness analysis.
type LoopPayload struct {
	Body      *Block
	NextIndex uint32
}

func (*LoopPayload) payload() Kind { return KindLoop }

// JumpPayload is the payload of a KindJump node.
type JumpPayload struct {
	Kind JumpKind
}

func (*JumpPayload) payload() Kind { return KindJump }

// ResourceLoadPayload is the payload of a KindResourceLoad node.
type ResourceLoadPayload struct {
	Resource Deref
	Sampler  Deref // Var is nil when no sampler is bound (e.g. Load variant)
	Coord    *Node
	Variant  ResourceVariant
}

func (*ResourceLoadPayload) payload() Kind { return KindResourceLoad }

// Node is the common header shared by every instruction kind, per
// spec.md §3.
type Node struct {
	Kind       Kind
	ResultType *types.Type
	Loc        diag.Location

	// Index is the unique, monotonic pre-order index assigned during
	// liveness analysis; 0 means "not indexed" (fresh node).
	Index uint32

	Reg        Register
	FirstWrite uint32
	LastRead   uint32

	Payload Payload

	// uses lists every node that references this node from one of its
	// own operand slots — the back-reference collection of spec.md §3's
	// "list_of_uses" — kept in sync by AddUse/RemoveUse/ReplaceNode so it
	// stays a bijection against the forward slots (spec.md §8).
	uses []*Node
}

// NewNode allocates a node of the given kind with payload p and result
// type rt. The node is not yet linked into any block and has Index 0.
func NewNode(kind Kind, rt *types.Type, p Payload) *Node {
	return &Node{Kind: kind, ResultType: rt, Payload: p}
}

// Uses returns the nodes that currently reference n as an operand.
func (n *Node) Uses() []*Node {
	return n.uses
}

// UseCount returns len(n.Uses()).
func (n *Node) UseCount() int {
	return len(n.uses)
}

// addUse records that consumer references n from one of its slots.
func (n *Node) addUse(consumer *Node) {
	n.uses = append(n.uses, consumer)
}

// removeUse removes one occurrence of consumer from n's use list.
func (n *Node) removeUse(consumer *Node) {
	for i, u := range n.uses {
		if u == consumer {
			n.uses = append(n.uses[:i], n.uses[i+1:]...)
			return
		}
	}
}

// operandSlots returns pointers to every direct operand field of n (not
// recursing into nested blocks), so that passes can rewrite or walk
// operands uniformly regardless of Kind.
func (n *Node) operandSlots() []**Node {
	switch n.Kind {
	case KindLoad:
		p := n.Payload.(*LoadPayload)
		return []**Node{&p.Src.Offset}
	case KindStore:
		p := n.Payload.(*StorePayload)
		return []**Node{&p.Lhs.Offset, &p.Rhs}
	case KindExpr:
		p := n.Payload.(*ExprPayload)
		slots := make([]**Node, 0, 3)
		for i := range p.Operands {
			slots = append(slots, &p.Operands[i])
		}
		return slots
	case KindSwizzle:
		p := n.Payload.(*SwizzlePayload)
		return []**Node{&p.Src}
	case KindConditional:
		p := n.Payload.(*ConditionalPayload)
		return []**Node{&p.Condition}
	case KindResourceLoad:
		p := n.Payload.(*ResourceLoadPayload)
		return []**Node{&p.Resource.Offset, &p.Sampler.Offset, &p.Coord}
	default:
		return nil
	}
}

// Operands returns the direct, non-nil operand nodes of n (not recursing
// into nested blocks). Read-only consumers (liveness, debug dumping)
// should use this instead of reaching into Payload by hand.
func (n *Node) Operands() []*Node {
	var out []*Node
	for _, slot := range n.operandSlots() {
		if *slot != nil {
			out = append(out, *slot)
		}
	}
	return out
}

// LinkUses walks n's direct operand slots and registers n as a consumer
// of each non-nil operand. Call once after constructing or mutating n's
// payload by hand (builder helpers call this for you).
func (n *Node) LinkUses() {
	for _, slot := range n.operandSlots() {
		if *slot != nil {
			(*slot).addUse(n)
		}
	}
}

// UnlinkUses detaches n from every node it references, per spec.md §5:
// "every rewrite that replaces a node must decrement use counts ... ; no
// ownership cycles remain afterward."
func (n *Node) UnlinkUses() {
	for _, slot := range n.operandSlots() {
		if *slot != nil {
			(*slot).removeUse(n)
		}
	}
}

// ReplaceNode rewrites every use of old to point at replacement instead,
// keeping the use-list/src-slot bijection intact: replacement gains a use
// entry for each consumer that referenced old, and old's use list is
// cleared. old is left in the arena but has no remaining references
// (DCE will subsequently collect it).
func ReplaceNode(old, replacement *Node) {
	consumers := old.uses
	old.uses = nil
	for _, consumer := range consumers {
		for _, slot := range consumer.operandSlots() {
			if *slot == old {
				*slot = replacement
				replacement.addUse(consumer)
			}
		}
	}
}
