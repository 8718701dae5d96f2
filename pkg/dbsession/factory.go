package dbsession

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/dmitrymomot/dbscope/pkg/db"
)

// Factory produces new sessions on demand.
type Factory interface {
	NewSession(ctx context.Context, opts ...SessionOption) (Session, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context, opts ...SessionOption) (Session, error)

func (f FactoryFunc) NewSession(ctx context.Context, opts ...SessionOption) (Session, error) {
	return f(ctx, opts...)
}

// EngineFactory produces sessions bound to one engine.
// It is configured once at startup and immutable afterwards.
type EngineFactory struct {
	open     func(ctx context.Context, cfg sessionConfig) (Session, error)
	engine   db.Engine
	defaults []SessionOption
}

// NewFactory binds a session factory to engine. The defaults form the
// session-level option bundle; options passed to NewSession override them.
func NewFactory(engine db.Engine, defaults ...SessionOption) (*EngineFactory, error) {
	f := &EngineFactory{engine: engine, defaults: slices.Clone(defaults)}

	switch e := engine.(type) {
	case nil:
		return nil, ErrNilEngine
	case *db.PgEngine:
		if e == nil {
			return nil, ErrNilEngine
		}
		f.open = func(ctx context.Context, cfg sessionConfig) (Session, error) {
			conn, err := e.Pool().Acquire(ctx)
			if err != nil {
				return nil, errors.Join(ErrAcquireSession, err)
			}
			return newPgSession(uuid.NewString(), conn, cfg), nil
		}
	case *db.SQLEngine:
		if e == nil {
			return nil, ErrNilEngine
		}
		f.open = func(ctx context.Context, cfg sessionConfig) (Session, error) {
			conn, err := e.DB().Conn(ctx)
			if err != nil {
				return nil, errors.Join(ErrAcquireSession, err)
			}
			return newSQLSession(uuid.NewString(), e.Driver(), conn, cfg), nil
		}
	default:
		return nil, errors.Join(ErrUnsupportedEngine, fmt.Errorf("%T", engine))
	}

	return f, nil
}

// Engine returns the bound engine.
func (f *EngineFactory) Engine() db.Engine {
	return f.engine
}

// NewSession acquires a connection and wraps it in a session.
func (f *EngineFactory) NewSession(ctx context.Context, opts ...SessionOption) (Session, error) {
	cfg := newSessionConfig(append(slices.Clone(f.defaults), opts...)...)
	return f.open(ctx, cfg)
}
