package dbsession_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dbscope/pkg/db"
	"github.com/dmitrymomot/dbscope/pkg/dbsession"
)

type unknownEngine struct{}

func (unknownEngine) Driver() string             { return "unknown" }
func (unknownEngine) Ping(context.Context) error { return nil }
func (unknownEngine) Close()                     {}

func newSQLiteManager(t *testing.T, opts ...dbsession.Option) *dbsession.Manager {
	t.Helper()

	ctx := context.Background()
	engine, err := db.Open(ctx, "sqlite3://"+filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	factory, err := dbsession.NewFactory(engine)
	require.NoError(t, err)
	require.Same(t, engine, factory.Engine())

	m, err := dbsession.New(factory, opts...)
	require.NoError(t, err)

	require.NoError(t, m.Run(ctx, func(ctx context.Context) error {
		sess := dbsession.MustCurrent(ctx)
		if _, err := sess.Exec(ctx, "CREATE TABLE items (name TEXT NOT NULL)"); err != nil {
			return err
		}
		return sess.Commit(ctx)
	}))

	return m
}

func countItems(t *testing.T, m *dbsession.Manager) int {
	t.Helper()

	var n int
	require.NoError(t, m.Run(context.Background(), func(ctx context.Context) error {
		return dbsession.MustCurrent(ctx).QueryRow(ctx, "SELECT COUNT(*) FROM items").Scan(&n)
	}))
	return n
}

func insertItem(ctx context.Context, name string) error {
	_, err := dbsession.MustCurrent(ctx).Exec(ctx, "INSERT INTO items (name) VALUES ($1)", name)
	return err
}

func TestNewFactory(t *testing.T) {
	t.Parallel()

	_, err := dbsession.NewFactory(nil)
	require.ErrorIs(t, err, dbsession.ErrNilEngine)

	var nilPg *db.PgEngine
	_, err = dbsession.NewFactory(nilPg)
	require.ErrorIs(t, err, dbsession.ErrNilEngine)

	_, err = dbsession.NewFactory(unknownEngine{})
	require.ErrorIs(t, err, dbsession.ErrUnsupportedEngine)
}

func TestSQLiteSessions(t *testing.T) {
	t.Parallel()

	t.Run("explicit commit persists", func(t *testing.T) {
		t.Parallel()

		m := newSQLiteManager(t)
		require.NoError(t, m.Run(context.Background(), func(ctx context.Context) error {
			if err := insertItem(ctx, "a"); err != nil {
				return err
			}
			return dbsession.MustCurrent(ctx).Commit(ctx)
		}))
		require.Equal(t, 1, countItems(t, m))
	})

	t.Run("handler error rolls back", func(t *testing.T) {
		t.Parallel()

		m := newSQLiteManager(t)
		appErr := errors.New("boom")
		err := m.Run(context.Background(), func(ctx context.Context) error {
			if err := insertItem(ctx, "a"); err != nil {
				return err
			}
			return appErr
		})
		require.ErrorIs(t, err, appErr)
		require.Equal(t, 0, countItems(t, m))
	})

	t.Run("cancelled statement context keeps the transaction", func(t *testing.T) {
		t.Parallel()

		m := newSQLiteManager(t)
		require.NoError(t, m.Run(context.Background(), func(ctx context.Context) error {
			qctx, cancel := context.WithTimeout(ctx, time.Second)
			err := insertItem(qctx, "a")
			cancel()
			if err != nil {
				return err
			}
			if err := insertItem(ctx, "b"); err != nil {
				return err
			}
			return dbsession.MustCurrent(ctx).Commit(ctx)
		}))
		require.Equal(t, 2, countItems(t, m))
	})

	t.Run("close discards uncommitted work", func(t *testing.T) {
		t.Parallel()

		m := newSQLiteManager(t)
		require.NoError(t, m.Run(context.Background(), func(ctx context.Context) error {
			return insertItem(ctx, "a")
		}))
		require.Equal(t, 0, countItems(t, m))
	})

	t.Run("commit on exit persists successful work", func(t *testing.T) {
		t.Parallel()

		m := newSQLiteManager(t, dbsession.WithCommitOnExit())
		require.NoError(t, m.Run(context.Background(), func(ctx context.Context) error {
			return insertItem(ctx, "a")
		}))
		require.Equal(t, 1, countItems(t, m))
	})

	t.Run("autocommit mode without auto begin", func(t *testing.T) {
		t.Parallel()

		m := newSQLiteManager(t)
		require.NoError(t, m.Run(context.Background(), func(ctx context.Context) error {
			return insertItem(ctx, "a")
		}, dbsession.WithAutoBegin(false)))
		require.Equal(t, 1, countItems(t, m))
	})

	t.Run("typed accessor and rows", func(t *testing.T) {
		t.Parallel()

		m := newSQLiteManager(t, dbsession.WithCommitOnExit())
		require.NoError(t, m.Run(context.Background(), func(ctx context.Context) error {
			for _, name := range []string{"a", "b"} {
				if err := insertItem(ctx, name); err != nil {
					return err
				}
			}
			return nil
		}))

		require.NoError(t, m.Run(context.Background(), func(ctx context.Context) error {
			sess, err := dbsession.CurrentSQL(ctx)
			require.NoError(t, err)
			require.Equal(t, db.DriverSQLite, sess.Driver())

			rows, err := sess.Query(ctx, "SELECT name FROM items ORDER BY name")
			require.NoError(t, err)
			defer rows.Close()

			var names []string
			for rows.Next() {
				var name string
				require.NoError(t, rows.Scan(&name))
				names = append(names, name)
			}
			require.NoError(t, rows.Err())
			require.Equal(t, []string{"a", "b"}, names)
			return nil
		}))
	})

	t.Run("session is unusable after the scope", func(t *testing.T) {
		t.Parallel()

		m := newSQLiteManager(t)
		var leaked dbsession.Session
		require.NoError(t, m.Run(context.Background(), func(ctx context.Context) error {
			leaked = dbsession.MustCurrent(ctx)
			return nil
		}))

		ctx := context.Background()
		_, err := leaked.Exec(ctx, "SELECT 1")
		require.ErrorIs(t, err, dbsession.ErrSessionClosed)
		require.ErrorIs(t, leaked.QueryRow(ctx, "SELECT 1").Scan(new(int)), dbsession.ErrSessionClosed)
		require.ErrorIs(t, leaked.Commit(ctx), dbsession.ErrSessionClosed)
		require.ErrorIs(t, leaked.Rollback(ctx), dbsession.ErrSessionClosed)
		require.NoError(t, leaked.Close(ctx))
	})
}
