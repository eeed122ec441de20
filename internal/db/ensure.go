package db

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"sqlsim/internal/config"
	"sqlsim/internal/util"
)

// EnsureDatabase creates the database named in a MySQL DSN if it does not
// exist. SQLite creates its database on open, so this is a no-op there.
func EnsureDatabase(ctx context.Context, driver, dsn string) error {
	if driver != config.DriverMySQL {
		return nil
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return errors.Wrap(err, "parse mysql dsn")
	}
	dbName := cfg.DBName
	if dbName == "" {
		return nil
	}
	cfg.DBName = ""
	exec, err := Open(driver, cfg.FormatDSN())
	if err != nil {
		return err
	}
	defer util.CloseWithErr(exec, "db exec")
	_, err = exec.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", dbName))
	return errors.Wrap(err, "create database")
}
