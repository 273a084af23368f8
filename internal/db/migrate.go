package db

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Migrate opens a connection to the database and runs the goose command
// ("up", "down" or "status") against the embedded migrations.
func Migrate(databaseURL, command string) error {
	run, ok := migrationCommands[command]
	if !ok {
		return fmt.Errorf("unknown migration command %q", command)
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	if err := run(db); err != nil {
		return fmt.Errorf("run migrations %s: %w", command, err)
	}

	return nil
}

var migrationCommands = map[string]func(*sql.DB) error{
	"up":     func(db *sql.DB) error { return goose.Up(db, migrationsDir) },
	"down":   func(db *sql.DB) error { return goose.Down(db, migrationsDir) },
	"status": func(db *sql.DB) error { return goose.Status(db, migrationsDir) },
}

// MigrationCommands lists the commands Migrate accepts.
func MigrationCommands() []string {
	return []string{"up", "down", "status"}
}
