package ir

// Block is an ordered sequence of instructions, per spec.md §4.5's
// description of passes operating "in program order" within each block
// and recursing into nested blocks (conditional then/else, loop body).
type Block struct {
	nodes []*Node
}

// NewBlock returns an empty block.
func NewBlock() *Block {
	return &Block{}
}

// Nodes returns the block's instructions in program order. Callers must
// not mutate the returned slice directly; use Append/InsertBefore/Remove.
func (b *Block) Nodes() []*Node {
	return b.nodes
}

// Len returns the number of instructions in the block.
func (b *Block) Len() int {
	return len(b.nodes)
}

// Append adds n to the end of the block and links its operand uses.
func (b *Block) Append(n *Node) {
	b.nodes = append(b.nodes, n)
	n.LinkUses()
}

// Prepend adds n to the start of the block (used by prepend_uniform_copy
// and similar semantic-lowering helpers) and links its operand uses.
func (b *Block) Prepend(n *Node) {
	b.nodes = append([]*Node{n}, b.nodes...)
	n.LinkUses()
}

// PrependAll inserts nodes at the start of the block in the given order
// (nodes[0] ends up first), linking each one's operand uses. Used by
// semantic lowering to splice a multi-node prologue in front of the
// existing body in one step.
func (b *Block) PrependAll(nodes []*Node) {
	b.nodes = append(append([]*Node{}, nodes...), b.nodes...)
	for _, n := range nodes {
		n.LinkUses()
	}
}

// InsertBefore inserts n immediately before mark, or at the start if mark
// is not found, and links its operand uses.
func (b *Block) InsertBefore(mark, n *Node) {
	idx := b.indexOf(mark)
	if idx < 0 {
		b.Prepend(n)
		return
	}
	b.insertAt(idx, n)
}

// InsertAfter inserts n immediately after mark, or at the end if mark is
// not found, and links its operand uses.
func (b *Block) InsertAfter(mark, n *Node) {
	idx := b.indexOf(mark)
	if idx < 0 {
		b.Append(n)
		return
	}
	b.insertAt(idx+1, n)
}

func (b *Block) insertAt(idx int, n *Node) {
	b.nodes = append(b.nodes, nil)
	copy(b.nodes[idx+1:], b.nodes[idx:])
	b.nodes[idx] = n
	n.LinkUses()
}

// Remove deletes n from the block and detaches it from every node it
// references (spec.md §5: a removed node must first give up its src
// slots so the use-list/slot bijection never dangles). It does not
// check n.UseCount(); callers (typically DCE) are responsible for only
// removing dead nodes.
func (b *Block) Remove(n *Node) {
	idx := b.indexOf(n)
	if idx < 0 {
		return
	}
	b.nodes = append(b.nodes[:idx], b.nodes[idx+1:]...)
	n.UnlinkUses()
}

func (b *Block) indexOf(n *Node) int {
	for i, x := range b.nodes {
		if x == n {
			return i
		}
	}
	return -1
}

// Walk calls visit on every node in the block, recursing into nested
// conditional/loop bodies in program order. visit returning false stops
// the whole walk early, including every enclosing block.
func (b *Block) Walk(visit func(*Node) bool) bool {
	for _, n := range b.nodes {
		if !visit(n) {
			return false
		}
		switch n.Kind {
		case KindConditional:
			p := n.Payload.(*ConditionalPayload)
			if p.Then != nil && !p.Then.Walk(visit) {
				return false
			}
			if p.Else != nil && !p.Else.Walk(visit) {
				return false
			}
		case KindLoop:
			p := n.Payload.(*LoopPayload)
			if p.Body != nil && !p.Body.Walk(visit) {
				return false
			}
		}
	}
	return true
}
