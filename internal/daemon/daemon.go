package daemon

import (
	"context"
	"errors"
	"net/http"
	"time"

	"quill/internal/logging"
	"quill/internal/store"
)

type Daemon struct {
	addr    string
	version string
	signer  *TokenSigner
	repo    store.Repository
	logger  logging.Logger
	server  *http.Server
}

func New(addr, version string, signer *TokenSigner, repo store.Repository, logger logging.Logger) *Daemon {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Daemon{
		addr:    addr,
		version: version,
		signer:  signer,
		repo:    repo,
		logger:  logger,
	}
}

func (d *Daemon) Run(ctx context.Context) error {
	events := NewAuthEventBroker()
	api := &API{
		Version: d.version,
		Auth:    NewAuthService(d.repo, d.signer, events),
		Notes:   NewNoteService(d.repo.Notes()),
		Admin:   NewAdminService(d.repo),
		Signer:  d.signer,
		Events:  events,
		Logger:  d.logger,
	}

	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	d.server = &http.Server{
		Addr:    d.addr,
		Handler: SessionAuthMiddleware(d.signer, mux),
	}

	errCh := make(chan error, 1)
	go func() {
		d.logger.Info("daemon listening", logging.F("addr", "http://"+d.addr))
		errCh <- d.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
