package generator

import (
	"sqlsim/internal/generation"
	"sqlsim/internal/schema"
)

// Kind names an operation type.
type Kind string

// Operation kinds.
const (
	KindCreateTable Kind = "create_table"
	KindCreateIndex Kind = "create_index"
	KindInsert      Kind = "insert"
	KindUpdate      Kind = "update"
	KindDelete      Kind = "delete"
	KindSelect      Kind = "select"
	KindDropTable   Kind = "drop_table"
)

// Result is what a correct engine answers for an operation.
type Result struct {
	// Rows holds inserted, updated (post-image), deleted or selected rows.
	Rows []schema.Row
	// Affected is the change count the engine should report for DML.
	Affected int
}

// Operation is a generated statement. Shadow must be applied exactly once,
// in the same order the statements are submitted to the engine.
type Operation interface {
	generation.Shadow[*schema.State, Result]
	Kind() Kind
	SQL() string
	TableName() string
}

// Query is an Operation that returns rows. ResultTypes gives the declared
// type of each projected column, used to decode engine values.
type Query interface {
	Operation
	ResultTypes() []schema.ColumnType
}
