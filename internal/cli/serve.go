package cli

import (
	"context"
	"time"

	"github.com/MJE43/tennis-sim-go/internal/api"
)

func (e *env) serve(ctx context.Context, args []string) error {
	fs := e.flagSet("serve")
	addr := fs.String("addr", e.cfg.HTTPAddr, "listen address")
	workers := fs.Int("workers", 0, "worker goroutines (0 = config or GOMAXPROCS)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := e.openStore(ctx)
	if err != nil {
		return err
	}

	requestTimeout := 60 * time.Second
	if t := time.Duration(e.cfg.TimeoutMs) * time.Millisecond; t > requestTimeout {
		requestTimeout = t + 5*time.Second
	}
	srv := api.NewServer(e.driver(*workers), store, api.Options{
		DefaultTrials:  e.cfg.DefaultTrials,
		TimeoutMs:      e.cfg.TimeoutMs,
		Format:         e.cfg.Format,
		Model:          e.cfg.Model,
		TiePolicy:      e.cfg.TiePolicy,
		RequestTimeout: requestTimeout,
	}, e.log)
	return srv.ListenAndServe(ctx, *addr)
}
