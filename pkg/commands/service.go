package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/config"
	"tableflip.dev/pitstop/pkg/store"
)

// loadService reads the config and wires the client, journal and logger. A
// journal that cannot be opened is logged and left out.
func loadService() (*app.Service, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.NewLogger(os.Stderr)

	j, err := store.Load(cfg)
	if err != nil {
		logger.Warn("journal unavailable", "path", cfg.BasePath(), "err", err)
		j = nil
	}

	client := api.New(api.Options{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.Timeout,
		RatePerSecond: cfg.RatePerSecond,
		Logger:        logger,
	})
	return app.New(client, j, cfg.Location, cfg.Signature, cfg.PollInterval, logger), cfg, nil
}

// interruptible is cancelled on ctrl+c.
func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func parseID(kind, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s id must be a positive number, got %q", kind, s)
	}
	return id, nil
}

// resolveVin turns a VIN or its last 6 into the vehicle id.
func resolveVin(ctx context.Context, svc *app.Service, q string) (int, error) {
	if q == "" {
		return 0, nil
	}
	v, err := svc.LookupVin(ctx, q)
	if err != nil {
		return 0, err
	}
	return v.ID, nil
}
