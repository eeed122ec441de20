package runner

import (
	"errors"
	"strings"
	"testing"

	"sqlsim/internal/config"
	"sqlsim/internal/db"
	"sqlsim/internal/schema"

	"github.com/go-sql-driver/mysql"
)

func TestCompareRowsIsOrderInsensitive(t *testing.T) {
	a := []schema.Row{{schema.IntValue(1)}, {schema.IntValue(2)}, {schema.IntValue(2)}}
	b := []schema.Row{{schema.IntValue(2)}, {schema.IntValue(1)}, {schema.IntValue(2)}}
	if _, _, equal := compareRows(a, b); !equal {
		t.Fatalf("permuted rows must compare equal")
	}
	c := []schema.Row{{schema.IntValue(1)}, {schema.IntValue(2)}}
	if _, _, equal := compareRows(a, c); equal {
		t.Fatalf("duplicate counts must matter")
	}
	d := []schema.Row{{schema.RealValue(1)}, {schema.IntValue(2)}, {schema.IntValue(2)}}
	if _, _, equal := compareRows(a, d); equal {
		t.Fatalf("types must matter")
	}
	if _, _, equal := compareRows(nil, []schema.Row{}); !equal {
		t.Fatalf("nil and empty are both empty")
	}
}

func TestClassifyEngineError(t *testing.T) {
	mysqlDB := &db.DB{Driver: config.DriverMySQL}
	if got := classifyEngineError(mysqlDB, &mysql.MySQLError{Number: 1146}); got != "mysql_error_1146" {
		t.Fatalf("unexpected reason %s", got)
	}
	if got := classifyEngineError(mysqlDB, errors.New("context deadline exceeded")); got != "timeout" {
		t.Fatalf("unexpected reason %s", got)
	}
	if got := classifyEngineError(nil, errors.New("driver: bad connection")); got != "connection_error" {
		t.Fatalf("unexpected reason %s", got)
	}
	if got := classifyEngineError(nil, errors.New("boom")); got != "engine_error" {
		t.Fatalf("unexpected reason %s", got)
	}
}

func TestMismatchErrorMessage(t *testing.T) {
	m := &MismatchError{Seed: 9, Step: 4, Kind: "update", SQL: "UPDATE t SET a = 1 WHERE 1 = 1", Reason: "affected_rows", ExpectedAffected: 2, ActualAffected: 1}
	msg := m.Error()
	for _, want := range []string{"step 4", "seed 9", "expected 2 affected, got 1"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q lacks %q", msg, want)
		}
	}
}
