// Package view turns an activity roster into an explicit, renderable view
// state: one card per activity plus the numbered option list used by the
// signup form. Building the state is pure; writing it to a terminal is the
// only side effect, and every Render call fully replaces the card area.
package view

import (
	"fmt"
	"io"

	"github.com/gookit/color"

	"github.com/vk/signupboard/internal/activity"
)

// PlaceholderOption heads the signup option list before any activity name.
const PlaceholderOption = "-- Select an activity --"

// FailureMessage replaces the card area when the roster cannot be fetched.
const FailureMessage = "Failed to load activities. Please try again later."

// noParticipants is the card body shown for an empty roster.
const noParticipants = "No participants yet"

// Card is the rendered form of a single activity.
type Card struct {
	Name         string
	Description  string
	Schedule     string
	Capacity     string
	Participants []string
}

// Row identifies one participant line and backs its removal control: the
// visible row number N maps to Rows[N-1].
type Row struct {
	Activity string
	Email    string
}

// State is the in-memory view state. Cards and Rows are rebuilt on every
// Build; Options survive across builds when the caller preserves them (the
// refreshDropdown=false path), so an in-progress selection keeps meaning.
type State struct {
	Cards   []Card
	Rows    []Row
	Options []string
}

// Build derives a fresh State from a roster, cards sorted by activity name,
// option list rebuilt from scratch.
func Build(roster activity.Roster) State {
	s := State{
		Cards:   make([]Card, 0, len(roster)),
		Options: make([]string, 0, len(roster)+1),
	}
	s.Options = append(s.Options, PlaceholderOption)

	for _, name := range roster.Names() {
		act := roster[name]
		s.Cards = append(s.Cards, Card{
			Name:         name,
			Description:  act.Description,
			Schedule:     act.Schedule,
			Capacity:     act.Capacity(),
			Participants: act.Participants,
		})
		for _, email := range act.Participants {
			s.Rows = append(s.Rows, Row{Activity: name, Email: email})
		}
		s.Options = append(s.Options, name)
	}
	return s
}

// WithOptionsFrom returns a copy of s carrying prev's option list instead of
// its own. This is the dropdown-preservation path: cards refresh, the
// numbered option list the user may be mid-selection on does not.
func (s State) WithOptionsFrom(prev State) State {
	s.Options = prev.Options
	return s
}

// OptionAt resolves a 1-based option number to an activity name. Number 0 is
// the placeholder and resolves to nothing, like submitting an unselected form.
func (s State) OptionAt(n int) (string, bool) {
	if n < 1 || n >= len(s.Options) {
		return "", false
	}
	return s.Options[n], true
}

// RowAt resolves a 1-based participant row number to its removal target.
func (s State) RowAt(n int) (Row, bool) {
	if n < 1 || n > len(s.Rows) {
		return Row{}, false
	}
	return s.Rows[n-1], true
}

// Render writes the full card area followed by the signup option list. The
// previous contents are not appended to but conceptually replaced; callers
// that redraw in place (watch mode) clear the screen first.
func Render(w io.Writer, s State) {
	row := 0
	for _, card := range s.Cards {
		fmt.Fprintf(w, "%s  %s\n", color.Bold.Sprint(card.Name), color.Cyan.Sprintf("(%s filled)", card.Capacity))
		fmt.Fprintf(w, "  %s\n", card.Description)
		fmt.Fprintf(w, "  Schedule: %s\n", card.Schedule)
		if len(card.Participants) == 0 {
			fmt.Fprintf(w, "  %s\n", color.Gray.Sprint(noParticipants))
		} else {
			fmt.Fprintln(w, "  Participants:")
			for _, email := range card.Participants {
				row++
				fmt.Fprintf(w, "    [%d] %s\n", row, email)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Sign up for an activity:")
	for i, opt := range s.Options {
		fmt.Fprintf(w, "  (%d) %s\n", i, opt)
	}
}

// RenderFailure replaces the card area with the fixed failure message.
func RenderFailure(w io.Writer) {
	fmt.Fprintln(w, color.Red.Sprint(FailureMessage))
}
