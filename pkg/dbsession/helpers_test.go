package dbsession_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/dbscope/pkg/dbsession"
)

// fakeSession records the lifecycle calls made by a scope.
type fakeSession struct {
	id          string
	rollbackErr error
	commitErr   error
	closeErr    error

	mu            sync.Mutex
	calls         []string
	closeCtxErr   error
	closeDeadline bool
}

func newFakeSession(id string) *fakeSession {
	return &fakeSession{id: id}
}

func (s *fakeSession) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *fakeSession) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeSession) count(call string) int {
	n := 0
	for _, c := range s.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (s *fakeSession) ID() string     { return s.id }
func (s *fakeSession) Driver() string { return "fake" }

func (s *fakeSession) Exec(context.Context, string, ...any) (int64, error) {
	s.record("exec")
	return 1, nil
}

func (s *fakeSession) Query(context.Context, string, ...any) (dbsession.Rows, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *fakeSession) QueryRow(context.Context, string, ...any) dbsession.Row {
	return nil
}

func (s *fakeSession) Commit(context.Context) error {
	s.record("commit")
	return s.commitErr
}

func (s *fakeSession) Rollback(context.Context) error {
	s.record("rollback")
	return s.rollbackErr
}

func (s *fakeSession) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closeCtxErr = ctx.Err()
	_, s.closeDeadline = ctx.Deadline()
	s.mu.Unlock()

	s.record("close")
	return s.closeErr
}

// fakeFactory hands out fresh fake sessions and remembers them.
type fakeFactory struct {
	err     error
	prepare func(*fakeSession)

	seq      atomic.Int64
	mu       sync.Mutex
	sessions []*fakeSession
	optsLens []int
}

func (f *fakeFactory) NewSession(_ context.Context, opts ...dbsession.SessionOption) (dbsession.Session, error) {
	if f.err != nil {
		return nil, f.err
	}

	s := newFakeSession(fmt.Sprintf("session-%d", f.seq.Add(1)))
	if f.prepare != nil {
		f.prepare(s)
	}

	f.mu.Lock()
	f.sessions = append(f.sessions, s)
	f.optsLens = append(f.optsLens, len(opts))
	f.mu.Unlock()

	return s, nil
}

func (f *fakeFactory) Sessions() []*fakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeSession(nil), f.sessions...)
}

// recordingObserver captures observer events.
type recordingObserver struct {
	mu         sync.Mutex
	opened     []string
	openFailed []error
	finished   map[string]dbsession.Outcome
	teardown   []string
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{finished: make(map[string]dbsession.Outcome)}
}

func (o *recordingObserver) SessionOpened(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, id)
}

func (o *recordingObserver) SessionOpenFailed(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.openFailed = append(o.openFailed, err)
}

func (o *recordingObserver) SessionFinished(id string, outcome dbsession.Outcome, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished[id] = outcome
}

func (o *recordingObserver) TeardownFailed(_ string, stage string, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.teardown = append(o.teardown, stage)
}
