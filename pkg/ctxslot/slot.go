package ctxslot

import (
	"context"
	"sync/atomic"
)

// Slot is a named, typed value carried by a context.Context.
// Each Slot owns its own context key, so two slots never collide even when
// they hold the same type.
type Slot[T any] struct {
	name string
}

// Token restores a Slot to the value it had before the matching Set.
// The zero Token is invalid.
type Token[T any] struct {
	owner  *Slot[T]
	cell   *cell[T]
	parent context.Context
}

// cell holds one installed value. Cells form a chain towards the value that
// was current when they were installed, so a deactivated cell resolves to
// its predecessor.
type cell[T any] struct {
	value  T
	parent *cell[T]
	active atomic.Bool
}

// contextKey is unique per Slot instance.
type contextKey[T any] struct {
	slot *Slot[T]
}

// New creates a slot. The name is used for diagnostics only.
func New[T any](name string) *Slot[T] {
	return &Slot[T]{name: name}
}

// Name returns the slot name.
func (s *Slot[T]) Name() string {
	return s.name
}

// Set installs value as the current value for ctx and everything derived from
// the returned context. The context passed in is left untouched.
func (s *Slot[T]) Set(ctx context.Context, value T) (context.Context, Token[T]) {
	c := &cell[T]{value: value, parent: s.lookup(ctx)}
	c.active.Store(true)

	return context.WithValue(ctx, contextKey[T]{slot: s}, c), Token[T]{owner: s, cell: c, parent: ctx}
}

// Get returns the current value for ctx.
// The boolean is false when no value is installed.
func (s *Slot[T]) Get(ctx context.Context) (T, bool) {
	for c := s.lookup(ctx); c != nil; c = c.parent {
		if c.active.Load() {
			return c.value, true
		}
	}

	var zero T
	return zero, false
}

// Reset deactivates the value installed by the Set that produced tok and
// returns the context that was current before that Set.
// Contexts derived from the Set context keep working: they resolve to the
// value that was current before Set, or to nothing.
func (s *Slot[T]) Reset(tok Token[T]) (context.Context, error) {
	if tok.cell == nil {
		return nil, ErrZeroToken
	}
	if tok.owner != s {
		return nil, ErrForeignToken
	}
	if !tok.cell.active.CompareAndSwap(true, false) {
		return tok.parent, ErrTokenUsed
	}

	return tok.parent, nil
}

func (s *Slot[T]) lookup(ctx context.Context) *cell[T] {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(contextKey[T]{slot: s}).(*cell[T])
	return c
}
