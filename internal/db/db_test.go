package db

import (
	"context"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"sqlsim/internal/config"
	"sqlsim/internal/schema"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	d, err := Open(config.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestExecAndQueryRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := openMemory(t)
	if _, err := d.Exec(ctx, "CREATE TABLE t (a INTEGER, b REAL, c TEXT, d BLOB)"); err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := d.Exec(ctx, "INSERT INTO t (a, b, c, d) VALUES (1, 2.0, 'x', X'00FF'), (-4, 0.25, 'y', X'01')")
	if err != nil || n != 2 {
		t.Fatalf("insert: %d %v", n, err)
	}
	types := []schema.ColumnType{schema.TypeInteger, schema.TypeReal, schema.TypeText, schema.TypeBlob}
	rows, err := d.Query(ctx, "SELECT a, b, c, d FROM t WHERE a = 1", types)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	want := schema.Row{schema.IntValue(1), schema.RealValue(2), schema.TextValue("x"), schema.BlobValue([]byte{0x00, 0xff})}
	if len(rows) != 1 || rows[0].String() != want.String() {
		t.Fatalf("unexpected rows: %v", rows)
	}
	n, err = d.Exec(ctx, "UPDATE t SET a = a + 0 WHERE 1 = 1")
	if err != nil || n != 2 {
		t.Fatalf("update must count matched rows: %d %v", n, err)
	}
	if _, err := d.Query(ctx, "SELECT a FROM t", types); err == nil {
		t.Fatalf("expected column count mismatch")
	}
}

func TestTablesAndDropAll(t *testing.T) {
	ctx := context.Background()
	d := openMemory(t)
	for _, stmt := range []string{"CREATE TABLE b (x INTEGER)", "CREATE TABLE a (x INTEGER)", "CREATE INDEX idx_0 ON a (x)"} {
		if _, err := d.Exec(ctx, stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	names, err := d.Tables(ctx)
	if err != nil || len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected tables: %v %v", names, err)
	}
	if err := d.DropAll(ctx); err != nil {
		t.Fatalf("drop all: %v", err)
	}
	if names, _ := d.Tables(ctx); len(names) != 0 {
		t.Fatalf("tables left: %v", names)
	}
}

func TestErrorCode(t *testing.T) {
	ctx := context.Background()
	d := openMemory(t)
	_, err := d.Exec(ctx, "SELECT * FROM missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if code, ok := ErrorCode(err); !ok || code == 0 {
		t.Fatalf("expected sqlite error code, got %d %v", code, ok)
	}
	wrapped := errors.Wrap(&mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}, "exec")
	if code, ok := ErrorCode(wrapped); !ok || code != 1146 {
		t.Fatalf("unexpected mysql code %d %v", code, ok)
	}
	if _, ok := ErrorCode(errors.New("plain")); ok {
		t.Fatalf("plain errors carry no code")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("postgres", "x"); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	if err := EnsureDatabase(context.Background(), config.DriverSQLite, ""); err != nil {
		t.Fatalf("sqlite ensure must be a no-op: %v", err)
	}
}
