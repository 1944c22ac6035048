package vectorexec

import (
	"github.com/quadfusion/engine/internal/logical"
)

func (c *compiler) compile(plan logical.PlanNode) (Operator, error) {
	switch n := plan.(type) {
	case logical.QuadPatternNode:
		return c.compileScan(n)
	case logical.ProjectNode:
		return c.compileProject(n)
	case logical.FilterNode:
		return c.compileFilter(n)
	case logical.ExtendNode:
		return c.compileExtend(n)
	case logical.OrderByNode:
		return c.compileOrderBy(n)
	case logical.SliceNode:
		return c.compileSlice(n)
	case logical.DistinctNode:
		return c.compileDistinct(n)
	case logical.UnionNode:
		return c.compileUnion(n)
	case logical.InnerJoinNode:
		return c.compileInnerJoin(n)
	case logical.LeftJoinNode:
		return c.compileLeftJoin(n)
	case logical.ValuesNode:
		return c.compileValues(n)
	case logical.RecursiveNode:
		return c.compileRecursive(n)

	// Raw SPARQL extension nodes reaching here means the optimizer's
	// lowering rules did not run, or a new rule left one of these
	// unrewritten; vectorexec only ever executes the lowered form.
	case logical.SparqlJoinNode, logical.MinusNode, logical.PropertyPathNode, logical.RecursionAnchorNode:
		return nil, notLowered(plan)

	default:
		return nil, notLowered(plan)
	}
}
