// Package config defines the format-agnostic configuration model for the
// client, along with the Loader interface implemented by format-specific
// packages such as hclconf.
package config

import (
	"context"
	"time"
)

// Model is the unified representation of the client configuration.
type Model struct {
	Server Server
	UI     UI
}

// Server holds everything needed to reach the signup service.
type Server struct {
	BaseURL string
	Timeout time.Duration
}

// UI holds rendering and timing knobs for the terminal client.
type UI struct {
	// NoticeTTL is how long a success/error notice stays visible.
	NoticeTTL time.Duration
	// WatchInterval is the reload period of watch mode.
	WatchInterval time.Duration
}

// Default returns the model used when no config file is given. The base URL
// matches the signup service's development default.
func Default() *Model {
	return &Model{
		Server: Server{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		UI: UI{
			NoticeTTL:     5 * time.Second,
			WatchInterval: 5 * time.Second,
		},
	}
}

// Loader is the interface for a format-specific configuration loader. Load
// starts from the defaults and overlays whatever the file at path defines.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}
