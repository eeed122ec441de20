// Package db opens the engine under test and converts its answers into shadow
// model values.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	msqlite "modernc.org/sqlite"

	"sqlsim/internal/config"
	"sqlsim/internal/schema"
	"sqlsim/internal/util"
)

// DB wraps a database/sql handle with the driver it was opened with.
type DB struct {
	*sql.DB
	Driver string
}

// Open connects to the engine named by driver. SQLite handles are limited to
// one connection so that an in-memory database is never split across pools.
// MySQL DSNs are forced to report matched rather than changed rows, which is
// what SQLite reports for UPDATE.
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case config.DriverSQLite:
		handle, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, errors.Wrap(err, "open sqlite")
		}
		handle.SetMaxOpenConns(1)
		return &DB{DB: handle, Driver: driver}, nil
	case config.DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, errors.Wrap(err, "parse mysql dsn")
		}
		cfg.ClientFoundRows = true
		handle, err := sql.Open("mysql", cfg.FormatDSN())
		if err != nil {
			return nil, errors.Wrap(err, "open mysql")
		}
		return &DB{DB: handle, Driver: driver}, nil
	default:
		return nil, errors.Errorf("unsupported driver %q", driver)
	}
}

// Exec runs a statement and returns the engine's affected row count.
func (d *DB) Exec(ctx context.Context, sqlText string) (int64, error) {
	res, err := d.ExecContext(ctx, sqlText)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}
	return n, nil
}

// Query runs a statement and decodes every column with the declared types.
func (d *DB) Query(ctx context.Context, sqlText string, types []schema.ColumnType) ([]schema.Row, error) {
	rows, err := d.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	defer util.CloseWithErr(rows, "query rows")
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "columns")
	}
	if len(cols) != len(types) {
		return nil, errors.Errorf("engine returned %d columns, expected %d", len(cols), len(types))
	}
	var out []schema.Row
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		row := make(schema.Row, len(cols))
		for i, v := range raw {
			val, err := schema.FromEngine(types[i], v)
			if err != nil {
				return nil, errors.Wrapf(err, "column %s", cols[i])
			}
			row[i] = val
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Tables lists the user tables currently defined in the engine.
func (d *DB) Tables(ctx context.Context) ([]string, error) {
	query := "SHOW TABLES"
	if d.Driver == config.DriverSQLite {
		query = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	}
	rows, err := d.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list tables")
	}
	defer util.CloseWithErr(rows, "table rows")
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan table name")
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DropAll removes every user table so a run starts from an empty database.
func (d *DB) DropAll(ctx context.Context) error {
	names, err := d.Tables(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := d.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", name)); err != nil {
			return errors.Wrapf(err, "drop %s", name)
		}
	}
	return nil
}

// ErrorCode extracts the engine error code, if err came from the engine.
func ErrorCode(err error) (code int, ok bool) {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return int(mysqlErr.Number), true
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code(), true
	}
	return 0, false
}

// IsTimeout reports whether err is a statement timeout or cancellation.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "context deadline exceeded") || strings.Contains(msg, "interrupted")
}
