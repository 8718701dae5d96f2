package db

import (
	"context"
	"errors"
)

// Shutdown returns a hook that closes the engine and every pooled connection.
// Register it with the server runner so it runs after in-flight requests drain.
func Shutdown(engine Engine) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		engine.Close()
		return nil
	}
}

// Healthcheck returns a closure compatible with readiness probes.
func Healthcheck(engine Engine) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := engine.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
