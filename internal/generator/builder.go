package generator

import (
	"strings"

	"sqlsim/internal/schema"
)

// SQLBuilder assembles SQL text with inline literals.
type SQLBuilder struct {
	sb strings.Builder
}

// Write appends raw SQL text to the builder.
func (b *SQLBuilder) Write(s string) {
	b.sb.WriteString(s)
}

// WriteValue appends v as a SQL literal.
func (b *SQLBuilder) WriteValue(v schema.Value) {
	b.sb.WriteString(v.SQLLiteral())
}

// WriteList appends items separated by ", ".
func (b *SQLBuilder) WriteList(items []string) {
	b.sb.WriteString(strings.Join(items, ", "))
}

// String returns the assembled SQL statement.
func (b *SQLBuilder) String() string {
	return b.sb.String()
}
