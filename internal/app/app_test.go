package app_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/signupboard/internal/activity"
	"github.com/vk/signupboard/internal/app"
	"github.com/vk/signupboard/internal/hclconf"
	"github.com/vk/signupboard/internal/storetest"
	"github.com/vk/signupboard/internal/view"
)

func init() {
	color.Disable()
}

// startService exposes a storetest double over HTTP for the app under test.
func startService(t *testing.T, roster activity.Roster) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(storetest.NewServer(roster))
	t.Cleanup(ts.Close)
	return ts
}

func newTestApp(t *testing.T, cfg app.Config, stdin string) (*app.App, *bytes.Buffer) {
	t.Helper()

	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	if validated.LogLevel == "" {
		validated.LogLevel = "error"
	}
	a := app.NewApp(strings.NewReader(stdin), out, logs, validated, hclconf.NewLoader())
	return a, out
}

func chessRoster() activity.Roster {
	return activity.Roster{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 2,
			Participants:    []string{"a@x.com"},
		},
	}
}

// TestListCommand pins the on-load scenario: one card, capacity 1/2, one
// participant row, placeholder plus one option.
func TestListCommand(t *testing.T) {
	ts := startService(t, chessRoster())

	a, out := newTestApp(t, app.Config{Command: app.CommandList, ServerURL: ts.URL}, "")
	require.NoError(t, a.Run(context.Background()))

	rendered := out.String()
	assert.Contains(t, rendered, "Chess Club  (1/2 filled)")
	assert.Contains(t, rendered, "[1] a@x.com")
	assert.Contains(t, rendered, "(0) "+view.PlaceholderOption)
	assert.Contains(t, rendered, "(1) Chess Club")

	state := a.Controller().State()
	assert.Len(t, state.Cards, 1)
	assert.Equal(t, []string{view.PlaceholderOption, "Chess Club"}, state.Options)
}

func TestListCommandFailsSoftWhenServiceIsDown(t *testing.T) {
	ts := httptest.NewServer(nil)
	ts.Close()

	a, out := newTestApp(t, app.Config{Command: app.CommandList, ServerURL: ts.URL}, "")
	require.NoError(t, a.Run(context.Background()), "fetch failures never escape the controller")

	assert.Contains(t, out.String(), view.FailureMessage)
}

func TestSignupCommand(t *testing.T) {
	ts := startService(t, chessRoster())

	a, out := newTestApp(t, app.Config{
		Command:   app.CommandSignup,
		Args:      []string{"Chess Club", "b@x.com"},
		ServerURL: ts.URL,
	}, "")
	require.NoError(t, a.Run(context.Background()))

	rendered := out.String()
	assert.Contains(t, rendered, "Signed up b@x.com for Chess Club")
	assert.Contains(t, rendered, "Chess Club  (2/2 filled)")
}

func TestSignupCommandShowsServerDetail(t *testing.T) {
	ts := startService(t, chessRoster())

	a, out := newTestApp(t, app.Config{
		Command:   app.CommandSignup,
		Args:      []string{"Chess Club", "a@x.com"},
		ServerURL: ts.URL,
	}, "")
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "Student already signed up for this activity")
	// The failed mutation never re-rendered, so the capacity stays at 1/2.
	assert.NotContains(t, out.String(), "(2/2 filled)")
}

func TestUnregisterCommand(t *testing.T) {
	ts := startService(t, chessRoster())

	a, out := newTestApp(t, app.Config{
		Command:   app.CommandUnregister,
		Args:      []string{"Chess Club", "a@x.com"},
		ServerURL: ts.URL,
	}, "")
	require.NoError(t, a.Run(context.Background()))

	rendered := out.String()
	assert.Contains(t, rendered, "Unregistered a@x.com from Chess Club")
	assert.Contains(t, rendered, "No participants yet")
}

// TestConsoleSignupFlow drives a full interactive session: select by option
// number, set the email, submit, and confirm the option list survived the
// refreshDropdown=false reload.
func TestConsoleSignupFlow(t *testing.T) {
	ts := startService(t, chessRoster())

	session := strings.Join([]string{
		"select 1",
		"email b@x.com",
		"signup",
		"quit",
	}, "\n") + "\n"

	a, out := newTestApp(t, app.Config{Command: app.CommandConsole, ServerURL: ts.URL}, session)
	require.NoError(t, a.Run(context.Background()))

	rendered := out.String()
	assert.Contains(t, rendered, "Signed up b@x.com for Chess Club")
	assert.Contains(t, rendered, "Chess Club  (2/2 filled)")
	assert.Equal(t, []string{view.PlaceholderOption, "Chess Club"}, a.Controller().State().Options)

	// The successful submit reset the form draft.
	selection, email := a.Controller().Draft()
	assert.Empty(t, selection)
	assert.Empty(t, email)
}

func TestConsoleRemoveFlow(t *testing.T) {
	ts := startService(t, chessRoster())

	session := "remove 1\nquit\n"

	a, out := newTestApp(t, app.Config{Command: app.CommandConsole, ServerURL: ts.URL}, session)
	require.NoError(t, a.Run(context.Background()))

	rendered := out.String()
	assert.Contains(t, rendered, "Unregistered a@x.com from Chess Club")
	assert.Contains(t, rendered, "No participants yet")
}

func TestConsoleRejectsIncompleteForm(t *testing.T) {
	ts := startService(t, chessRoster())

	session := "signup\nquit\n"

	a, out := newTestApp(t, app.Config{Command: app.CommandConsole, ServerURL: ts.URL}, session)
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "Select an activity and set an email first")
}

func TestConsoleUnknownCommand(t *testing.T) {
	ts := startService(t, chessRoster())

	session := "frobnicate\nquit\n"

	a, out := newTestApp(t, app.Config{Command: app.CommandConsole, ServerURL: ts.URL}, session)
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), `Unknown command "frobnicate"`)
}

// TestConfigFileWiring proves NewApp resolves the service URL from an HCL
// file when no -server flag is given.
func TestConfigFileWiring(t *testing.T) {
	ts := startService(t, chessRoster())

	path := filepath.Join(t.TempDir(), "signupboard.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  base_url = "`+ts.URL+`"
}
`), 0600))

	a, out := newTestApp(t, app.Config{Command: app.CommandList, ConfigPath: path}, "")
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "Chess Club  (1/2 filled)")
}

func TestNewAppPanicsOnBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`server {`), 0600))

	cfg, err := app.NewConfig(app.Config{Command: app.CommandList, ConfigPath: path, LogLevel: "error"})
	require.NoError(t, err)

	assert.Panics(t, func() {
		app.NewApp(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}, cfg, hclconf.NewLoader())
	})
}

func TestNewConfigValidation(t *testing.T) {
	t.Parallel()

	_, err := app.NewConfig(app.Config{Command: "dance"})
	require.Error(t, err)

	_, err = app.NewConfig(app.Config{Command: app.CommandList, Args: []string{"extra"}})
	require.Error(t, err)

	cfg, err := app.NewConfig(app.Config{Command: app.CommandUnregister, Args: []string{"Chess Club", "a@x.com"}})
	require.NoError(t, err)
	assert.Equal(t, app.CommandUnregister, cfg.Command)
}

// TestWatchCommandStopsOnCancel verifies watch re-renders on its interval
// and exits cleanly when the context is cancelled.
func TestWatchCommandStopsOnCancel(t *testing.T) {
	ts := startService(t, chessRoster())

	a, out := newTestApp(t, app.Config{
		Command:       app.CommandWatch,
		ServerURL:     ts.URL,
		WatchInterval: 10 * time.Millisecond,
	}, "")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(80 * time.Millisecond)
		cancel()
	}()

	require.NoError(t, a.Run(ctx))
	assert.GreaterOrEqual(t, strings.Count(out.String(), "Chess Club  (1/2 filled)"), 2,
		"watch should have rendered at least the initial draw plus one refresh")
}

// TestDemoCommand runs the console against the embedded sample service.
func TestDemoCommand(t *testing.T) {
	session := "reload\nquit\n"

	a, out := newTestApp(t, app.Config{Command: app.CommandDemo}, session)
	require.NoError(t, a.Run(context.Background()))

	rendered := out.String()
	assert.Contains(t, rendered, "Chess Club")
	assert.Contains(t, rendered, "michael@mergington.edu")
	assert.Contains(t, rendered, "(9)", "all nine seeded activities appear as options")
}
