package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestConnectEmptyURL(t *testing.T) {
	if _, err := Connect(context.Background(), "  ", DefaultCLIOptions()); err == nil {
		t.Fatal("want error for empty DATABASE_URL")
	}
}

func TestConnectPings(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	mock.ExpectPing()

	orig := openDB
	openDB = func(driverName, dsn string) (*sql.DB, error) {
		return mockDB, nil
	}
	defer func() { openDB = orig }()

	conn, err := Connect(context.Background(), "postgres://ignored", DefaultCLIOptions())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer conn.Close()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestConnectClosesOnPingFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	mock.ExpectPing().WillReturnError(driver.ErrBadConn)
	mock.ExpectClose()

	orig := openDB
	openDB = func(driverName, dsn string) (*sql.DB, error) {
		return mockDB, nil
	}
	defer func() { openDB = orig }()

	if _, err := Connect(context.Background(), "postgres://ignored", DefaultCLIOptions()); err == nil {
		t.Fatal("want error when ping fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_PING_TIMEOUT", "3s")
	t.Setenv("DB_CONN_MAX_LIFETIME", "nonsense")

	opts := OptionsFromEnv(DefaultServerOptions())
	if opts.MaxOpenConns != 7 {
		t.Errorf("MaxOpenConns = %d", opts.MaxOpenConns)
	}
	if opts.PingTimeout != 3*time.Second {
		t.Errorf("PingTimeout = %v", opts.PingTimeout)
	}
	if opts.ConnMaxLifetime != DefaultServerOptions().ConnMaxLifetime {
		t.Errorf("invalid duration must keep default, got %v", opts.ConnMaxLifetime)
	}
}
