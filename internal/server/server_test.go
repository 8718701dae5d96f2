package server_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dbscope/internal/server"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("serves until the base context is cancelled", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		var hookCalls atomic.Int32

		done := make(chan error, 1)
		go func() {
			done <- server.Run(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					_, _ = io.WriteString(w, "pong")
				}),
				server.Listener(ln),
				server.BaseContext(ctx),
				server.ShutdownHooks(func(context.Context) error {
					hookCalls.Add(1)
					return nil
				}),
			)
		}()

		require.Eventually(t, func() bool {
			resp, err := http.Get("http://" + ln.Addr().String())
			if err != nil {
				return false
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			return string(body) == "pong"
		}, 2*time.Second, 10*time.Millisecond)

		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
		require.Equal(t, int32(1), hookCalls.Load())
	})

	t.Run("joins shutdown hook errors", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		hookErr := errors.New("close pool")
		err = server.Run(http.NotFoundHandler(),
			server.Listener(ln),
			server.BaseContext(ctx),
			server.ShutdownTimeout(time.Second),
			server.ShutdownHooks(func(context.Context) error { return hookErr }),
		)
		require.ErrorIs(t, err, hookErr)
	})

	t.Run("listen error", func(t *testing.T) {
		t.Parallel()

		err := server.Run(http.NotFoundHandler(), server.Address("256.0.0.1:bad"))
		require.Error(t, err)
	})
}
