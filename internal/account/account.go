// Package account wires the account lifecycle module: a store backend, the
// service over it, and the HTTP handler over the service.
package account

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"accountd/internal/account/handler"
	"accountd/internal/account/service"
	"accountd/internal/account/store"
	platformmetrics "accountd/internal/platform/metrics"
)

// Module is the assembled account module.
type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

// New builds the module over backend. Service options (publisher, metrics,
// tracer) pass straight through.
func New(backend store.Backend, logger *slog.Logger, httpMetrics *platformmetrics.Metrics, opts ...service.Option) (*Module, error) {
	svc, err := service.New(backend, append([]service.Option{service.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Module{
		Service: svc,
		Handler: handler.New(svc, logger, httpMetrics),
	}, nil
}

// Routes mounts the account endpoints on r.
func (m *Module) Routes(r chi.Router) {
	m.Handler.Register(r)
}
