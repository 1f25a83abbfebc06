package server

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type RouteRegistrar interface {
	RegisterRoutes(router Router)
}

// App serves the operational endpoints of the daemon.
type App struct {
	router     Router
	registrars []RouteRegistrar
	server     *http.Server
}

func NewApp(addr string, router Router, registrars ...RouteRegistrar) *App {
	return &App{
		router:     router,
		registrars: registrars,
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

func (a *App) SetupRoutes() {
	for _, registrar := range a.registrars {
		registrar.RegisterRoutes(a.router)
	}
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Start blocks serving on the configured address until Shutdown.
func (a *App) Start() error {
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- a.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := a.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}
