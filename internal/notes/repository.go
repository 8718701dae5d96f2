// Package notes is a small notes service used to exercise request-scoped
// sessions end to end. It never receives a database handle: every operation
// reads the request's session from the context.
package notes

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/dbscope/pkg/db"
	"github.com/dmitrymomot/dbscope/pkg/dbsession"
)

// Migrations holds the goose migrations of the notes schema under "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations that holds the SQL files.
const MigrationsDir = "migrations"

const maxTitleLen = 255

var (
	ErrNotFound    = errors.New("notes: note not found")
	ErrInvalidNote = errors.New("notes: invalid note")
)

// Note is a stored note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository stores notes through the current session of the context.
// Changes are not committed; the caller decides the unit of work.
type Repository struct {
	now func() time.Time
}

// NewRepository creates a Repository.
func NewRepository() *Repository {
	return &Repository{now: time.Now}
}

// Create inserts a note.
func (r *Repository) Create(ctx context.Context, title, body string) (Note, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > maxTitleLen {
		return Note{}, errors.Join(ErrInvalidNote, errors.New("title must be 1-255 characters"))
	}

	sess, err := dbsession.Current(ctx)
	if err != nil {
		return Note{}, err
	}

	n := Note{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}

	query, args, err := db.Rebind(sess.Driver(),
		"INSERT INTO notes (id, title, body, created_at) VALUES ($1, $2, $3, $4)",
		n.ID, n.Title, n.Body, n.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return Note{}, err
	}
	if _, err := sess.Exec(ctx, query, args...); err != nil {
		return Note{}, err
	}
	return n, nil
}

// Get returns the note with id, or ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (Note, error) {
	sess, err := dbsession.Current(ctx)
	if err != nil {
		return Note{}, err
	}

	var (
		n       Note
		created int64
	)
	query, args, err := db.Rebind(sess.Driver(),
		"SELECT id, title, body, created_at FROM notes WHERE id = $1", id)
	if err != nil {
		return Note{}, err
	}
	err = sess.QueryRow(ctx, query, args...).Scan(&n.ID, &n.Title, &n.Body, &created)
	if isNoRows(err) {
		return Note{}, ErrNotFound
	}
	if err != nil {
		return Note{}, err
	}

	n.CreatedAt = time.UnixMilli(created).UTC()
	return n, nil
}

// List returns up to limit notes, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]Note, error) {
	if limit <= 0 {
		limit = 50
	}

	sess, err := dbsession.Current(ctx)
	if err != nil {
		return nil, err
	}

	query, args, err := db.Rebind(sess.Driver(),
		"SELECT id, title, body, created_at FROM notes ORDER BY created_at DESC, id LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	rows, err := sess.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]Note, 0, limit)
	for rows.Next() {
		var (
			n       Note
			created int64
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &created); err != nil {
			return nil, err
		}
		n.CreatedAt = time.UnixMilli(created).UTC()
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Delete removes the note with id, or returns ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id string) error {
	sess, err := dbsession.Current(ctx)
	if err != nil {
		return err
	}

	query, args, err := db.Rebind(sess.Driver(), "DELETE FROM notes WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := sess.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
