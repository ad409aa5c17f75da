// Package database provides database connection management and migrations.
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/mmiprep/trainer/internal/config"
	"github.com/mmiprep/trainer/schemas"
)

// ErrUnavailable marks failures caused by the storage layer (connectivity,
// constraint violations) so callers can distinguish them from domain
// outcomes and retry or surface them.
var ErrUnavailable = errors.New("storage unavailable")

// Open opens a MySQL connection using the provided config.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = cfg.Username
	mysqlCfg.Passwd = cfg.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mysqlCfg.DBName = cfg.Database
	mysqlCfg.ParseTime = true
	mysqlCfg.MultiStatements = true
	if cfg.TLS {
		mysqlCfg.TLSConfig = "true"
	}
	if len(cfg.Params) > 0 {
		mysqlCfg.Params = cfg.Params
	}

	db, err := sqlx.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	return db, nil
}

// Migrate applies all embedded schema migrations to the given database.
func Migrate(db *sqlx.DB, databaseName string) error {
	source, err := iofs.New(schemas.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("iofs.New() > %w", err)
	}

	driver, err := migratemysql.WithInstance(db.DB, &migratemysql.Config{
		DatabaseName: databaseName,
	})
	if err != nil {
		return fmt.Errorf("mysql.WithInstance() > %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, databaseName, driver)
	if err != nil {
		return fmt.Errorf("migrate.NewWithInstance() > %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate.Up() > %w", err)
	}
	return nil
}
