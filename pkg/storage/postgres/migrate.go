package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/storage"

	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"go.uber.org/zap"
)

// Migrate applies the goose migrations found in dir of fsys and then brings
// the river queue schema to its latest version. It must not be called inside
// a transaction.
func (p *PgSQL) Migrate(ctx context.Context, fsys fs.FS, dir string) error {
	db, ok := p.DB.(*sql.DB)
	if !ok {
		return storage.ErrAlreadyInTx
	}

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("could not set goose dialect to postgres: %w", err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
	if err != nil {
		return fmt.Errorf("could not create river queue migrator: %w", err)
	}

	migrations := migrator.AllVersions()
	latestVersion := migrations[len(migrations)-1].Version
	currentVersion := 0
	existing, err := migrator.ExistingVersions(ctx)
	if err != nil {
		return fmt.Errorf("could not get existing river queue migrations: %w", err)
	}

	if len(existing) > 0 {
		currentVersion = existing[len(existing)-1].Version
	}

	if latestVersion > currentVersion {
		if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{
			TargetVersion: latestVersion,
		}); err != nil {
			return fmt.Errorf("could not migrate river queue: %w", err)
		}
	}

	logger.Info(ctx, "database migrated", zap.Int("riverVersion", latestVersion))

	return nil
}
