// Package goosemigrate runs embedded goose migrations inside a dedicated Postgres schema.
package goosemigrate

import (
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const driver = "pgx"

type Migrator struct {
	postgresURL string
	fsys        fs.FS
	dir         string
	schema      string
}

// NewMigrator builds a migrator reading goose SQL files from dir inside fsys. The goose
// version table lives in schema next to the migrated tables.
func NewMigrator(postgresURL string, fsys fs.FS, dir, schema string) *Migrator {
	return &Migrator{
		postgresURL: postgresURL,
		fsys:        fsys,
		dir:         dir,
		schema:      schema,
	}
}

// Up creates the schema when missing and applies every pending migration.
func (m *Migrator) Up() error {
	return m.withDB("up", func(db *sql.DB) error {
		if _, err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", m.schema)); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}

		return goose.Up(db, m.dir)
	})
}

// Down rolls back every migration and drops the schema.
func (m *Migrator) Down() error {
	return m.withDB("down", func(db *sql.DB) error {
		if err := goose.Reset(db, m.dir); err != nil {
			return err
		}

		if _, err := db.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", m.schema)); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}

		return nil
	})
}

// Status prints the applied state of every migration through goose's logger.
func (m *Migrator) Status() error {
	return m.withDB("status", func(db *sql.DB) error {
		return goose.Status(db, m.dir)
	})
}

func (m *Migrator) withDB(action string, fn func(db *sql.DB) error) error {
	goose.SetBaseFS(m.fsys)
	goose.SetTableName(m.schema + ".migrations")

	db, err := goose.OpenDBWithDriver(driver, m.postgresURL)
	if err != nil {
		return fmt.Errorf("failed to open DB for migration: %w", err)
	}
	defer db.Close()

	if err := fn(db); err != nil {
		return fmt.Errorf("migrations %s: %w", action, err)
	}

	return nil
}
