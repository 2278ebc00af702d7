package cli

import (
	"context"
	"fmt"
	"io"

	"gtodo/internal/backend/googletasks"
	"gtodo/internal/backend/sqlite"
	"gtodo/internal/config"
	"gtodo/internal/logging"
	"gtodo/internal/service"
)

// BackendFactory returns the ServiceFactory used by the gtodo binary. It
// opens the store named by cfg.Settings.Backend; backend logs go to logOut.
func BackendFactory(logOut io.Writer) ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		switch cfg.Settings.Backend {
		case config.BackendSQLite:
			store, err := sqlite.Open(cfg.DatabasePath())
			if err != nil {
				return nil, fmt.Errorf("failed to open %s: %w", cfg.DatabasePath(), err)
			}
			return store, nil
		case config.BackendGoogle:
			if !cfg.HasOAuthClient() {
				return nil, fmt.Errorf("%w: oauth_client.json not found in %s", service.ErrUnauthorized, cfg.Dir)
			}
			if !cfg.HasToken() {
				return nil, fmt.Errorf("%w: not logged in (run: gtodo login)", service.ErrUnauthorized)
			}
			log := logging.Component(logging.New(logOut, cfg.Debug), "googletasks")
			return googletasks.New(ctx, cfg, log)
		default:
			return nil, fmt.Errorf("unknown backend: %s", cfg.Settings.Backend)
		}
	}
}
