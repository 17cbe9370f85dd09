package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/signupboard/internal/config"
	"github.com/vk/signupboard/internal/controller"
	"github.com/vk/signupboard/internal/ctxlog"
	"github.com/vk/signupboard/internal/notify"
	"github.com/vk/signupboard/internal/store"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	inR  io.Reader
	outW io.Writer

	logger     *slog.Logger
	cfg        *Config
	model      *config.Model
	store      *store.Client
	notifier   *notify.Notifier
	controller *controller.Controller
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. Logs go to logW so
// rendered output on outW stays clean.
func NewApp(inR io.Reader, outW, logW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	// CLI flags override the file model.
	if appConfig.ServerURL != "" {
		model.Server.BaseURL = appConfig.ServerURL
	}
	if appConfig.Timeout > 0 {
		model.Server.Timeout = appConfig.Timeout
	}
	if appConfig.NoticeTTL > 0 {
		model.UI.NoticeTTL = appConfig.NoticeTTL
	}
	if appConfig.WatchInterval > 0 {
		model.UI.WatchInterval = appConfig.WatchInterval
	}
	logger.Debug("Configuration resolved.", "base_url", model.Server.BaseURL)

	a := &App{
		inR:    inR,
		outW:   outW,
		logger: logger,
		cfg:    appConfig,
		model:  model,
	}
	a.bindStore(model.Server.BaseURL)
	return a
}

// bindStore (re)wires the client stack against a service base URL. The demo
// command rebinds to its embedded server after startup.
func (a *App) bindStore(baseURL string) {
	a.store = store.New(baseURL, store.WithTimeout(a.model.Server.Timeout))
	a.notifier = notify.New(a.outW, notify.WithTTL(a.model.UI.NoticeTTL))
	a.controller = controller.New(a.store, a.notifier, a.outW)
}

// Controller returns the application's controller. This is primarily for testing.
func (a *App) Controller() *controller.Controller {
	return a.controller
}
