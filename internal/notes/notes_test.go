package notes_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dbscope/internal/notes"
	"github.com/dmitrymomot/dbscope/middlewares"
	"github.com/dmitrymomot/dbscope/pkg/db"
	"github.com/dmitrymomot/dbscope/pkg/dbsession"
	"github.com/dmitrymomot/dbscope/pkg/logger"
)

func newManager(t *testing.T) *dbsession.Manager {
	t.Helper()

	ctx := context.Background()
	engine, err := db.Open(ctx, "sqlite3://"+filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	require.NoError(t, db.Migrate(ctx, engine, notes.Migrations, notes.MigrationsDir, "", logger.NewNope()))

	factory, err := dbsession.NewFactory(engine)
	require.NoError(t, err)

	mgr, err := dbsession.New(factory)
	require.NoError(t, err)
	return mgr
}

func TestRepository(t *testing.T) {
	t.Parallel()

	t.Run("outside a scope", func(t *testing.T) {
		t.Parallel()

		_, err := notes.NewRepository().Get(context.Background(), "x")
		require.ErrorIs(t, err, dbsession.ErrNoActiveSession)
	})

	t.Run("create, get, list, delete", func(t *testing.T) {
		t.Parallel()

		mgr := newManager(t)
		repo := notes.NewRepository()
		ctx := context.Background()

		var created notes.Note
		require.NoError(t, mgr.Run(ctx, func(ctx context.Context) error {
			var err error
			created, err = repo.Create(ctx, "  first  ", "hello")
			if err != nil {
				return err
			}
			return dbsession.MustCurrent(ctx).Commit(ctx)
		}))
		require.Equal(t, "first", created.Title)

		require.NoError(t, mgr.Run(ctx, func(ctx context.Context) error {
			got, err := repo.Get(ctx, created.ID)
			require.NoError(t, err)
			require.Equal(t, created, got)

			list, err := repo.List(ctx, 10)
			require.NoError(t, err)
			require.Len(t, list, 1)

			if err := repo.Delete(ctx, created.ID); err != nil {
				return err
			}
			return dbsession.MustCurrent(ctx).Commit(ctx)
		}))

		require.NoError(t, mgr.Run(ctx, func(ctx context.Context) error {
			_, err := repo.Get(ctx, created.ID)
			require.ErrorIs(t, err, notes.ErrNotFound)
			require.ErrorIs(t, repo.Delete(ctx, created.ID), notes.ErrNotFound)
			return nil
		}))
	})

	t.Run("failed request leaves no rows", func(t *testing.T) {
		t.Parallel()

		mgr := newManager(t)
		repo := notes.NewRepository()
		ctx := context.Background()
		boom := errors.New("boom")

		var id string
		err := mgr.Run(ctx, func(ctx context.Context) error {
			n, err := repo.Create(ctx, "doomed", "")
			require.NoError(t, err)
			id = n.ID
			return boom
		})
		require.Equal(t, boom, err)

		require.NoError(t, mgr.Run(ctx, func(ctx context.Context) error {
			_, err := repo.Get(ctx, id)
			require.ErrorIs(t, err, notes.ErrNotFound)
			return nil
		}))
	})

	t.Run("uncommitted work is discarded on close", func(t *testing.T) {
		t.Parallel()

		mgr := newManager(t)
		repo := notes.NewRepository()
		ctx := context.Background()

		require.NoError(t, mgr.Run(ctx, func(ctx context.Context) error {
			_, err := repo.Create(ctx, "draft", "")
			return err
		}))

		require.NoError(t, mgr.Run(ctx, func(ctx context.Context) error {
			list, err := repo.List(ctx, 0)
			require.NoError(t, err)
			require.Empty(t, list)
			return nil
		}))
	})

	t.Run("invalid title", func(t *testing.T) {
		t.Parallel()

		mgr := newManager(t)
		err := mgr.Run(context.Background(), func(ctx context.Context) error {
			_, err := notes.NewRepository().Create(ctx, "   ", "")
			return err
		})
		require.ErrorIs(t, err, notes.ErrInvalidNote)
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	mgr := newManager(t)
	r := chi.NewRouter()
	notes.NewHandler(notes.NewRepository()).Routes(r, middlewares.WithMiddleware(
		middlewares.RequestID(),
		middlewares.Recover(),
		middlewares.DBSession(mgr),
	))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/notes", "application/json", strings.NewReader(`{"title":"groceries","body":"milk"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var created notes.Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Equal(t, "groceries", created.Title)

	resp, err = http.Get(srv.URL + "/notes/" + created.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/notes?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list []notes.Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{"unknown note", http.MethodGet, "/notes/missing", "", http.StatusNotFound},
		{"bad json", http.MethodPost, "/notes", "{", http.StatusBadRequest},
		{"empty title", http.MethodPost, "/notes", `{"title":""}`, http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/notes?limit=x", "", http.StatusBadRequest},
		{"delete", http.MethodDelete, "/notes/" + created.ID, "", http.StatusNoContent},
		{"delete again", http.MethodDelete, "/notes/" + created.ID, "", http.StatusNotFound},
	}

	// Subtests run in order: "delete again" depends on "delete".
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tt.code, resp.StatusCode)
		})
	}
}
