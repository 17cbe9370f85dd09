package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/vk/signupboard/internal/ctxlog"
	"github.com/vk/signupboard/internal/storetest"
)

// Run executes the configured command. It returns an error only for
// infrastructure failures (bad command wiring, demo server startup); fetch
// and mutation failures are handled soft by the controller and rendered.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.cfg.Command)

	switch a.cfg.Command {
	case CommandList:
		a.controller.LoadActivities(ctx, true)
		return nil

	case CommandSignup:
		// Mirror the browser flow: draw the current roster, mutate, then the
		// controller reloads without a dropdown refresh.
		a.controller.LoadActivities(ctx, true)
		a.controller.SubmitSignup(ctx, a.cfg.Args[0], a.cfg.Args[1])
		return nil

	case CommandUnregister:
		a.controller.LoadActivities(ctx, true)
		a.controller.RemoveParticipant(ctx, a.cfg.Args[0], a.cfg.Args[1])
		return nil

	case CommandWatch:
		return a.watch(ctx)

	case CommandConsole:
		return a.console(ctx)

	case CommandDemo:
		baseURL, stop, err := storetest.NewServer(storetest.Seed()).Start()
		if err != nil {
			return fmt.Errorf("starting embedded signup service: %w", err)
		}
		defer stop()
		a.logger.Info("Embedded sample signup service running.", "base_url", baseURL)
		a.bindStore(baseURL)
		return a.console(ctx)

	default:
		// NewConfig already rejects unknown commands; reaching this is a bug.
		return fmt.Errorf("unhandled command %q", a.cfg.Command)
	}
}

// watch reloads and re-renders the roster on a fixed interval until the
// context is cancelled. The option list is rebuilt only on the first draw.
func (a *App) watch(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	a.controller.LoadActivities(ctx, true)

	ticker := time.NewTicker(a.model.UI.WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Watch loop stopped.")
			return nil
		case <-ticker.C:
			fmt.Fprintln(a.outW)
			a.controller.LoadActivities(ctx, false)
		}
	}
}
