package hclconf

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signupboard.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	model, err := NewLoader().Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", model.Server.BaseURL)
	assert.Equal(t, 10*time.Second, model.Server.Timeout)
	assert.Equal(t, 5*time.Second, model.UI.NoticeTTL)
	assert.Equal(t, 5*time.Second, model.UI.WatchInterval)
}

func TestLoadOverlaysFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server {
  base_url = "http://signup.mergington.edu"
  timeout  = "3s"
}

ui {
  notice_ttl = "1s"
}
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "http://signup.mergington.edu", model.Server.BaseURL)
	assert.Equal(t, 3*time.Second, model.Server.Timeout)
	assert.Equal(t, time.Second, model.UI.NoticeTTL)
	// Untouched attributes keep their defaults.
	assert.Equal(t, 5*time.Second, model.UI.WatchInterval)
}

func TestLoadResolvesEnvReferences(t *testing.T) {
	t.Setenv("SIGNUP_SERVER", "http://example.test:9000")

	path := writeConfig(t, `
server {
  base_url = env.SIGNUP_SERVER
}
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:9000", model.Server.BaseURL)
}

func TestLoadRejectsInvalidHCL(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `server { base_url =`)

	_, err := NewLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server {
  timeout = "not-a-duration"
}
`)

	_, err := NewLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.timeout")
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"))
	require.Error(t, err)
}
