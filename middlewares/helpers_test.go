package middlewares_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dbscope/pkg/dbsession"
)

type recordingSession struct {
	dbsession.Session
	id string

	mu    sync.Mutex
	calls []string
}

func (s *recordingSession) ID() string { return s.id }

func (s *recordingSession) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *recordingSession) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *recordingSession) Commit(context.Context) error {
	s.record("commit")
	return nil
}

func (s *recordingSession) Rollback(context.Context) error {
	s.record("rollback")
	return nil
}

func (s *recordingSession) Close(context.Context) error {
	s.record("close")
	return nil
}

type sessionRecorder struct {
	mu       sync.Mutex
	sessions []*recordingSession
	err      error
}

func (f *sessionRecorder) NewSession(context.Context, ...dbsession.SessionOption) (dbsession.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s := &recordingSession{id: string(rune('a' + len(f.sessions)))}
	f.sessions = append(f.sessions, s)
	return s, nil
}

func (f *sessionRecorder) Only(t *testing.T) *recordingSession {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.sessions, 1)
	return f.sessions[0]
}

func newManager(t *testing.T, opts ...dbsession.Option) (*dbsession.Manager, *sessionRecorder) {
	t.Helper()
	factory := &sessionRecorder{}
	mgr, err := dbsession.New(factory, opts...)
	require.NoError(t, err)
	return mgr, factory
}

var errHandler = errors.New("handler failed")
