package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"visionary/log"
)

const (
	// Memory opens a database that lives only as long as the process.
	Memory string = ":memory:"

	getCurrentMigration string = `PRAGMA user_version;`
	setCurrentMigration string = `PRAGMA user_version = ?;`
)

type migration struct {
	migrationName  string
	migrationQuery string
}

var migrations = []migration{
	{migrationName: "create image generations table", migrationQuery: createImageGenerations},
	{migrationName: "index image generations by creation", migrationQuery: indexImageGenerations},
	{migrationName: "add session to image generations", migrationQuery: addImageGenerationSession},
}

const createImageGenerations = `
CREATE TABLE IF NOT EXISTS image_generations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	prompt TEXT NOT NULL,
	negative_prompt TEXT NOT NULL DEFAULT '',
	model TEXT NOT NULL DEFAULT '',
-- 	selected loras as a json array of {name, strength}
	loras TEXT NOT NULL DEFAULT '[]',
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	steps INTEGER NOT NULL,
	cfg_scale REAL NOT NULL DEFAULT 0,
	seed INTEGER NOT NULL DEFAULT 0,
	batch_size INTEGER NOT NULL DEFAULT 0,
	image_width INTEGER NOT NULL DEFAULT 0,
	image_height INTEGER NOT NULL DEFAULT 0,
	image_bytes INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
)
`

const indexImageGenerations = `
CREATE INDEX IF NOT EXISTS image_generations_created_at ON image_generations (created_at DESC)
`

const addImageGenerationSession = `
ALTER TABLE image_generations ADD COLUMN session TEXT NOT NULL DEFAULT ''
`

// New opens the history database at filename, creating the file when
// needed, and brings its schema up to date.
func New(ctx context.Context, filename string) (*sql.DB, error) {
	if filename == "" {
		return nil, errors.New("missing database filename")
	}

	if filename != Memory {
		if err := touchDBFile(filename); err != nil {
			return nil, fmt.Errorf("failed to create db file: %w", err)
		}
	}

	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, err
	}

	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func touchDBFile(filename string) error {
	_, err := os.Stat(filename)
	if os.IsNotExist(err) {
		file, createErr := os.Create(filename)
		if createErr != nil {
			return createErr
		}

		return file.Close()
	}

	return err
}

func migrate(ctx context.Context, db *sql.DB) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("sqlite")

	var currentMigration int
	if err := db.QueryRowContext(ctx, getCurrentMigration).Scan(&currentMigration); err != nil {
		return err
	}

	requiredMigration := len(migrations)
	log.Info("checking schema", "current", currentMigration, "required", requiredMigration)

	for migrationNum := currentMigration + 1; migrationNum <= requiredMigration; migrationNum++ {
		log.Info("running migration", "number", migrationNum, "name", migrations[migrationNum-1].migrationName)
		if err := execMigration(ctx, db, migrationNum); err != nil {
			log.Error("migration failed", "number", migrationNum, "error", err)
			return err
		}
	}

	return nil
}

func execMigration(ctx context.Context, db *sql.DB, migrationNum int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	//nolint
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, migrations[migrationNum-1].migrationQuery); err != nil {
		return err
	}

	// PRAGMA does not take bound parameters
	setQuery := strings.Replace(setCurrentMigration, "?", strconv.Itoa(migrationNum), 1)
	if _, err := tx.ExecContext(ctx, setQuery); err != nil {
		return err
	}

	return tx.Commit()
}
