// internal/server/run.go
//
// Serve until the context ends, then shut down gracefully.
//
// The listener and the shutdown watcher run in one errgroup.  A listener
// failure cancels the group, so the watcher returns too.  After Shutdown
// returns, the drain hooks run in order (notification dispatcher, Sentry
// flush) before Run reports.

package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Run serves srv on ln until ctx is cancelled.  A nil ln listens on srv.Addr.
func Run(ctx context.Context, srv *http.Server, ln net.Listener, log *zap.Logger, drain ...func()) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		var err error
		if ln != nil {
			err = srv.Serve(ln)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("http server shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	err := g.Wait()
	for _, fn := range drain {
		fn()
	}
	return err
}
