// Package controller wires user actions to the signup service and drives
// re-rendering. It is the fail-soft boundary of the client: every store
// error is converted into either the fixed failure rendering or a notice,
// and nothing propagates to the event loop.
package controller

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/vk/signupboard/internal/activity"
	"github.com/vk/signupboard/internal/ctxlog"
	"github.com/vk/signupboard/internal/notify"
	"github.com/vk/signupboard/internal/store"
	"github.com/vk/signupboard/internal/view"
)

// ActivityStore is the slice of the store client the controller needs.
type ActivityStore interface {
	List(ctx context.Context) (activity.Roster, error)
	Signup(ctx context.Context, activityName, email string) (string, error)
	Unregister(ctx context.Context, activityName, email string) (string, error)
}

// Notifier is the notice surface the controller reports through.
type Notifier interface {
	Show(message string, kind notify.Kind)
}

// Controller owns the view state and the signup form draft. Mutations are
// fire-and-forget: no optimistic update, no retry; the displayed state is
// always the last successful fetch after the mutation completed.
type Controller struct {
	store    ActivityStore
	notifier Notifier
	out      io.Writer

	// gen orders fetches so a slow, superseded fetch can never overwrite the
	// view with stale data. Only the latest generation's result renders.
	gen atomic.Uint64

	mu         sync.Mutex
	state      view.State
	selection  string
	draftEmail string
}

// New builds a Controller rendering to out.
func New(st ActivityStore, notifier Notifier, out io.Writer) *Controller {
	return &Controller{store: st, notifier: notifier, out: out}
}

// State returns a snapshot of the current view state.
func (c *Controller) State() view.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LoadActivities fetches the roster and re-renders. With refreshDropdown
// false the option list is carried over unchanged, preserving an in-progress
// selection. It fails soft: fetch errors render the fixed failure message
// and are logged, never returned.
func (c *Controller) LoadActivities(ctx context.Context, refreshDropdown bool) {
	logger := ctxlog.FromContext(ctx)
	gen := c.gen.Add(1)

	roster, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen.Load() {
		// A newer fetch started while this one was in flight.
		logger.Debug("Discarding stale activities fetch.", "generation", gen)
		return
	}

	if err != nil {
		logger.Error("Loading activities failed.", "error", err)
		view.RenderFailure(c.out)
		return
	}

	next := view.Build(roster)
	if !refreshDropdown {
		next = next.WithOptionsFrom(c.state)
	}
	c.state = next
	view.Render(c.out, c.state)
}

// SubmitSignup sends a signup for email to activityName. On success the form
// draft is reset, the roster reloads without a dropdown refresh, and the
// server's confirmation is shown. On failure the server's detail (or the
// generic fallback) is shown and the draft is left untouched.
func (c *Controller) SubmitSignup(ctx context.Context, activityName, email string) {
	message, err := c.store.Signup(ctx, activityName, email)
	if err != nil {
		c.notifier.Show(store.Detail(err), notify.Error)
		return
	}

	c.notifier.Show(message, notify.Success)
	c.ResetForm()
	c.LoadActivities(ctx, false)
}

// RemoveParticipant unregisters email from activityName, reloading on
// success and surfacing the server's detail on failure.
func (c *Controller) RemoveParticipant(ctx context.Context, activityName, email string) {
	message, err := c.store.Unregister(ctx, activityName, email)
	if err != nil {
		c.notifier.Show(store.Detail(err), notify.Error)
		return
	}

	c.notifier.Show(message, notify.Success)
	c.LoadActivities(ctx, false)
}

// Select records the signup form's activity choice by 1-based option number
// or by exact name. It reports whether the choice resolved.
func (c *Controller) Select(choice string, num int, byNumber bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if byNumber {
		name, ok := c.state.OptionAt(num)
		if !ok {
			return false
		}
		c.selection = name
		return true
	}
	for i, opt := range c.state.Options {
		if i == 0 {
			continue // placeholder is not selectable
		}
		if opt == choice {
			c.selection = choice
			return true
		}
	}
	return false
}

// SetDraftEmail records the signup form's email field.
func (c *Controller) SetDraftEmail(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draftEmail = email
}

// Draft returns the current form draft (selection, email).
func (c *Controller) Draft() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection, c.draftEmail
}

// ResetForm clears the form draft, as a successful submit does.
func (c *Controller) ResetForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = ""
	c.draftEmail = ""
}

// RowAt resolves a rendered participant row number to its removal target.
func (c *Controller) RowAt(n int) (view.Row, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.RowAt(n)
}
