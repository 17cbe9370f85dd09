// Package notify shows transient success/error notices with an auto-hide
// delay, mirroring a message banner: any Show makes the area visible and
// schedules a hide after a fixed TTL.
//
// Each Show schedules its own independent hide timer and prior timers are
// deliberately not cancelled. A later notice can therefore be hidden early
// by an earlier notice's timer firing. That race is observable behavior the
// rest of the client relies on matching, so it stays; see the package tests
// for the exact sequence.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gookit/color"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 5 * time.Second

// Kind classifies a notice for styling.
type Kind string

const (
	// Success marks confirmation notices.
	Success Kind = "success"
	// Error marks failure notices.
	Error Kind = "error"
)

// Notifier writes styled notice lines and tracks the visibility window of
// the message area. Safe for concurrent use.
type Notifier struct {
	out io.Writer
	ttl time.Duration

	// after schedules the hide callbacks; swapped for a capture fake in tests.
	after func(time.Duration, func()) *time.Timer

	mu      sync.Mutex
	visible bool
	message string
	kind    Kind
}

// Option customises a Notifier at construction time.
type Option func(*Notifier)

// WithTTL overrides the default visibility window.
func WithTTL(d time.Duration) Option {
	return func(n *Notifier) {
		n.ttl = d
	}
}

// WithAfterFunc replaces the timer scheduler. Test hook.
func WithAfterFunc(after func(time.Duration, func()) *time.Timer) Option {
	return func(n *Notifier) {
		n.after = after
	}
}

// New builds a Notifier writing to out.
func New(out io.Writer, opts ...Option) *Notifier {
	n := &Notifier{
		out:   out,
		ttl:   DefaultTTL,
		after: time.AfterFunc,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Show writes the notice, makes the area visible, and schedules a hide after
// the TTL. It never cancels previously scheduled hides.
func (n *Notifier) Show(message string, kind Kind) {
	n.mu.Lock()
	n.visible = true
	n.message = message
	n.kind = kind
	n.mu.Unlock()

	switch kind {
	case Success:
		fmt.Fprintln(n.out, color.Green.Sprintf("✔ %s", message))
	default:
		fmt.Fprintln(n.out, color.Red.Sprintf("✖ %s", message))
	}

	n.after(n.ttl, n.hide)
}

// hide flips the area back to hidden, regardless of which Show scheduled it.
func (n *Notifier) hide() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visible = false
}

// Visible reports whether the message area is currently shown.
func (n *Notifier) Visible() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.visible
}

// Current returns the last notice, whether or not it is still visible.
func (n *Notifier) Current() (string, Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message, n.kind
}
