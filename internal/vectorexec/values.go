package vectorexec

import (
	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/internal/results"
)

func (c *compiler) compileValues(n logical.ValuesNode) (Operator, error) {
	rows := make([]results.QuerySolution, 0, len(n.Rows))
	for _, row := range n.Rows {
		sol := results.NewQuerySolution()
		for i, col := range n.Columns {
			if i < len(row) {
				sol = sol.With(col, row[i])
			}
		}
		rows = append(rows, sol)
	}
	return &bufferedOperator{rows: rows, size: c.opts.BatchSize}, nil
}
