package passes

import "github.com/gogpu/shaderc/ir"

// Options configures the pass driver.
type Options struct {
	// Legacy selects lower_division, which only applies to legacy
	// profiles (spec.md §4.5).
	Legacy bool
	// AssignLiveness computes node.Index/FirstWrite/LastRead before DCE
	// runs; the passes package does not depend on the liveness package
	// directly so the two stay decoupled per spec.md §2's pipeline
	// ordering (liveness analysis is its own numbered stage).
	AssignLiveness func(*ir.Context)
}

// Run sequences the transformation passes exactly in spec.md §4.5's
// order, applying the fixed-point ones to convergence, per spec.md §5
// ("the driver applies them in that sequence at the top of compile").
func Run(ctx *ir.Context, opts Options) {
	LowerBroadcasts(ctx)
	toFixedPoint(ctx, FoldRedundantCasts)
	toFixedPoint(ctx, SplitStructuredCopies)
	LowerNarrowingCasts(ctx)
	toFixedPoint(ctx, func(c *ir.Context) bool {
		foldedProgress := FoldConstants(c)
		propProgress := CopyPropagation(c)
		return foldedProgress || propProgress
	})
	RemoveTrivialSwizzles(ctx)
	if opts.Legacy {
		LowerDivision(ctx)
	}
	if opts.AssignLiveness != nil {
		opts.AssignLiveness(ctx)
	}
	toFixedPoint(ctx, DCE)
}
