package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// goose keeps its settings in package globals.
var migrateMu sync.Mutex

// Migrate applies every pending migration found in dir of the migrations filesystem.
// The goose dialect follows the engine driver.
func Migrate(ctx context.Context, engine Engine, migrations fs.FS, dir, table string, log *slog.Logger) error {
	sqlDB, err := sqlHandle(engine)
	if err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLoggerAdapter{log})
	if table != "" {
		goose.SetTableName(table)
	}

	if err := goose.SetDialect(engine.Driver()); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	if dir == "" {
		dir = "."
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	return nil
}

// sqlHandle exposes the engine through database/sql, which goose requires.
func sqlHandle(engine Engine) (*sql.DB, error) {
	switch e := engine.(type) {
	case *PgEngine:
		// OpenDBFromPool shares the pool connections; closing the returned
		// handle would disrupt the shared pool, so it is left open.
		return stdlib.OpenDBFromPool(e.Pool()), nil
	case *SQLEngine:
		return e.DB(), nil
	case nil:
		return nil, errors.New("nil engine")
	default:
		return nil, fmt.Errorf("engine %T has no database/sql handle", engine)
	}
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	if g.log != nil {
		g.log.Info(fmt.Sprintf(format, args...))
	}
}

func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	// goose returns an error after calling Fatalf, so logging is enough here.
	if g.log != nil {
		g.log.Error(fmt.Sprintf(format, args...))
	}
}
