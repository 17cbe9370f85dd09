package app

import (
	"fmt"
	"time"
)

// Commands understood by Run.
const (
	CommandList       = "list"
	CommandSignup     = "signup"
	CommandUnregister = "unregister"
	CommandWatch      = "watch"
	CommandConsole    = "console"
	CommandDemo       = "demo"
)

// Config holds all the necessary configuration for an App instance to run.
// Zero values for ServerURL and the durations mean "use the config file or
// built-in default".
type Config struct {
	Command string
	Args    []string

	ServerURL  string
	ConfigPath string

	Timeout       time.Duration
	NoticeTTL     time.Duration
	WatchInterval time.Duration

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandList, CommandWatch, CommandConsole, CommandDemo:
		if len(cfg.Args) != 0 {
			return nil, fmt.Errorf("command %q takes no arguments", cfg.Command)
		}
	case CommandSignup, CommandUnregister:
		if len(cfg.Args) != 2 {
			return nil, fmt.Errorf("command %q requires exactly ACTIVITY and EMAIL arguments", cfg.Command)
		}
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	return &cfg, nil
}
