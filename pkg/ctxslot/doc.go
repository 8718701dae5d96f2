// Package ctxslot stores request-scoped values in a context.Context with
// explicit set and reset semantics.
//
// A [Slot] behaves like a task-local variable whose "task" is a context tree.
// Every function and goroutine that receives the context returned by
// [Slot.Set], or a context derived from it, sees the installed value.
// Independent requests have independent context trees and never observe each
// other's values.
//
// # Usage
//
//	var current = ctxslot.New[*Conn]("conn")
//
//	ctx, tok := current.Set(ctx, conn)
//	defer current.Reset(tok)
//
//	if c, ok := current.Get(ctx); ok {
//		// use c
//	}
//
// # Reset
//
// Context values are immutable, so [Slot.Reset] cannot remove a value from a
// context that is already in circulation. Instead, the value is deactivated:
// any context derived from the Set context, including one captured by a
// goroutine that outlives the scope, resolves to the value that was current
// before Set. Nested scopes therefore restore the outer value exactly.
//
// Reset must be paired 1:1 with Set. A second Reset of the same token returns
// [ErrTokenUsed], a token from another slot returns [ErrForeignToken].
//
// Get is lock-free and never blocks.
package ctxslot
