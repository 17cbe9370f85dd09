// Package hclconf is the HCL implementation of config.Loader. A config file
// holds at most one server block and one ui block:
//
//	server {
//	  base_url = "http://localhost:8000"
//	  timeout  = "10s"
//	}
//
//	ui {
//	  notice_ttl     = "5s"
//	  watch_interval = "3s"
//	}
//
// Attribute expressions may reference process environment variables through
// the env object, e.g. base_url = env.SIGNUP_SERVER.
package hclconf

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/signupboard/internal/config"
	"github.com/vk/signupboard/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top-level blocks of a config file.
type fileRoot struct {
	Server *serverBlock `hcl:"server,block"`
	UI     *uiBlock     `hcl:"ui,block"`
}

type serverBlock struct {
	BaseURL *string `hcl:"base_url,optional"`
	Timeout *string `hcl:"timeout,optional"`
}

type uiBlock struct {
	NoticeTTL     *string `hcl:"notice_ttl,optional"`
	WatchInterval *string `hcl:"watch_interval,optional"`
}

// Load parses the HCL file at path and overlays it onto the defaults. An
// empty path returns the defaults untouched.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := config.Default()

	if path == "" {
		logger.Debug("No config file given, using defaults.")
		return model, nil
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, evalContext(), &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	if root.Server != nil {
		if root.Server.BaseURL != nil {
			model.Server.BaseURL = *root.Server.BaseURL
		}
		if err := overlayDuration(&model.Server.Timeout, root.Server.Timeout, "server.timeout"); err != nil {
			return nil, err
		}
	}
	if root.UI != nil {
		if err := overlayDuration(&model.UI.NoticeTTL, root.UI.NoticeTTL, "ui.notice_ttl"); err != nil {
			return nil, err
		}
		if err := overlayDuration(&model.UI.WatchInterval, root.UI.WatchInterval, "ui.watch_interval"); err != nil {
			return nil, err
		}
	}

	logger.Debug("Config file loaded.", "path", path, "base_url", model.Server.BaseURL)
	return model, nil
}

// overlayDuration parses an optional duration attribute onto dst.
func overlayDuration(dst *time.Duration, raw *string, attr string) error {
	if raw == nil {
		return nil
	}
	d, err := time.ParseDuration(*raw)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %w", attr, err)
	}
	*dst = d
	return nil
}

// evalContext exposes the process environment as the env object so config
// files can interpolate values like env.SIGNUP_SERVER.
func evalContext() *hcl.EvalContext {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
