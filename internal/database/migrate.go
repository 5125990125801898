// internal/database/migrate.go
//
// Schema migrations (pressly/goose, embedded SQL).
//
// Context
// -------
// The service owns exactly one table.  Its DDL lives under migrations/ and is
// compiled into the binary so a fresh database can be brought up with
// `database.migrate: true` and no files on disk.
//
// Notes
// -----
//   - goose keeps its own bookkeeping table (goose_db_version).
//   - goose dialect and base FS are package globals; Migrate sets both on
//     every call.
package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending migration and returns the resulting version.
func Migrate(ctx context.Context, db *sqlx.DB, log *zap.Logger) (int64, error) {
	if log == nil {
		log = zap.NewNop()
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}

	log.Info("applying database migrations")
	if err := goose.UpContext(ctx, db.DB, "migrations"); err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db.DB)
	if err != nil {
		return 0, fmt.Errorf("get migration version: %w", err)
	}
	log.Info("migrations applied", zap.Int64("version", version))
	return version, nil
}
