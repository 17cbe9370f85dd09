// Package activity defines the data model shared by the store client and the
// renderer: a roster of named activities, each with a schedule, a capacity,
// and an ordered list of participant emails.
//
// The model mirrors the wire format of the signup service exactly. Capacity
// and duplicate enforcement belong to the service; this package only carries
// what the service returns.
package activity

import (
	"fmt"
	"sort"
)

// Activity is a single extracurricular activity as served by the signup
// service. Participants is an ordered sequence of email addresses.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Capacity renders the filled/total fraction, e.g. "1/12".
func (a Activity) Capacity() string {
	return fmt.Sprintf("%d/%d", len(a.Participants), a.MaxParticipants)
}

// SpotsLeft reports the remaining open spots. It can go negative if the
// service ever returns an over-full roster; the client renders it as-is.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// Roster maps an activity name (the unique key) to its details.
type Roster map[string]Activity

// Names returns all activity names in sorted order for stable rendering.
func (r Roster) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
