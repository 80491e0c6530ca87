package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"scad/internal/ast"
	"scad/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a built
// statement list:
// 1) every top-level statement has a non-empty span inside the file
// 2) every node's span is well-formed and points at the parsed file
// 3) every node's span is contained in its statement's span
func CheckSpanInvariants(stmts []ast.Stmt, file *source.File) error {
	if file == nil {
		return fmt.Errorf("nil file")
	}
	limit, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fmt.Errorf("content length overflow: %w", err)
	}

	for i, stmt := range stmts {
		if stmt == nil {
			return fmt.Errorf("statement %d is nil", i)
		}
		top := stmt.Span()
		if top.Empty() {
			return fmt.Errorf("statement %d has an empty span: %v", i, top)
		}
		if top.End > limit {
			return fmt.Errorf("statement %d span %v ends beyond content length %d", i, top, limit)
		}

		var walkErr error
		ast.Walk(stmt, func(n ast.Node) bool {
			if walkErr != nil {
				return false
			}
			sp := n.Span()
			if sp.End < sp.Start {
				walkErr = fmt.Errorf("inverted span %v", sp)
				return false
			}
			if sp.File != file.ID {
				walkErr = fmt.Errorf("span %v points at file %d, want %d", sp, sp.File, file.ID)
				return false
			}
			if sp.End > limit {
				walkErr = fmt.Errorf("span %v ends beyond content length %d", sp, limit)
				return false
			}
			if !top.Contains(sp) {
				walkErr = fmt.Errorf("span %v escapes its statement span %v", sp, top)
				return false
			}
			return true
		})
		if walkErr != nil {
			return fmt.Errorf("statement %d: %w", i, walkErr)
		}
	}
	return nil
}
