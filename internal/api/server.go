package api

import (
	"errors"
	"net/http"
	"time"

	serverconfig "github.com/jonesrussell/godiscover/internal/config/server"
)

// readHeaderTimeout bounds slow-header clients independently of the
// configured read timeout.
const readHeaderTimeout = 10 * time.Second

// NewHTTPServer builds the HTTP server around the configured router.
func NewHTTPServer(cfg *serverconfig.Config, p RouterParams) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           SetupRouter(p),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// Serve runs the server and reports fatal errors on the returned channel.
// A clean shutdown does not produce an error.
func Serve(srv *http.Server) <-chan error {
	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	return errChan
}
