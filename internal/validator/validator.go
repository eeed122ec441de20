// Package validator checks generated statements with the TiDB parser before
// they reach the engine, so generator bugs are reported as such instead of as
// engine errors.
package validator

import (
	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pkg/errors"

	_ "github.com/pingcap/tidb/pkg/types/parser_driver" // Register TiDB parser driver.
)

// Validator wraps the TiDB parser. It is not safe for concurrent use.
type Validator struct {
	parser *parser.Parser
}

// New returns a Validator instance.
func New() *Validator {
	return &Validator{parser: parser.New()}
}

// Validate parses a SQL statement and returns any syntax error.
func (v *Validator) Validate(sql string) error {
	_, err := v.Parse(sql)
	return err
}

// Parse returns the single statement in sql.
func (v *Validator) Parse(sql string) (ast.StmtNode, error) {
	stmts, _, err := v.parser.Parse(sql, "", "")
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	if len(stmts) != 1 {
		return nil, errors.Errorf("expected one statement, got %d", len(stmts))
	}
	return stmts[0], nil
}

// StatementKind names the statement class the way operation kinds do.
func StatementKind(stmt ast.StmtNode) string {
	switch s := stmt.(type) {
	case *ast.CreateTableStmt:
		return "create_table"
	case *ast.CreateIndexStmt:
		return "create_index"
	case *ast.InsertStmt:
		return "insert"
	case *ast.UpdateStmt:
		return "update"
	case *ast.DeleteStmt:
		return "delete"
	case *ast.SelectStmt:
		return "select"
	case *ast.DropTableStmt:
		if s.IsView {
			return "drop_view"
		}
		return "drop_table"
	default:
		return "other"
	}
}
