package menu

import (
	"context"
	"log/slog"

	"github.com/mchmarny/menuview/pkg/server"
)

// Serve publishes the menu produced by src at GET /menu, together with the health
// and metrics endpoints, and blocks until the context is canceled or an error occurs.
func Serve(ctx context.Context, src Source, opt ...server.Option) error {
	opts := make([]server.Option, 0, len(opt)+3)
	opts = append(opts, opt...)
	opts = append(opts,
		server.WithHandler("GET "+Path, Handler(src)),
		server.WithSimpleHealth(),
		server.WithMetrics(),
	)

	slog.Info("publishing menu", "path", Path)

	return server.New(opts...).Serve(ctx)
}
