package model

import (
	"strings"
	"sync"
)

// PlacementEvent records one accepted placement. Events are never mutated
// after append except for the hostname label, which arrives asynchronously
// from reverse DNS.
type PlacementEvent struct {
	ID        string `json:"id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Color     string `json:"color"`
	Timestamp int64  `json:"timestamp"`
	IP        string `json:"ip"`
	Hostname  string `json:"hostname,omitempty"`
}

// Timelapse is the append-only ordered history of accepted placements. It is
// independent of the canvas: overwritten cells keep their full provenance
// here. Growth is unbounded, it is an audit trail.
type Timelapse struct {
	mu     sync.Mutex
	events []PlacementEvent
}

func NewTimelapse() *Timelapse {
	return &Timelapse{
		events: make([]PlacementEvent, 0),
	}
}

// Append adds one event to the end of the log.
func (t *Timelapse) Append(event PlacementEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.events = append(t.events, event)
}

// Events returns a copy of the ordered event sequence.
func (t *Timelapse) Events() []PlacementEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]PlacementEvent, len(t.events))
	copy(out, t.events)
	return out
}

// Len returns the number of recorded events.
func (t *Timelapse) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}

// Replace substitutes the whole log. Used only during startup restoration.
func (t *Timelapse) Replace(events []PlacementEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if events == nil {
		events = make([]PlacementEvent, 0)
	}
	t.events = events
}

// SetHostname attaches the resolved provenance label to the event with the
// given ID. Returns false when no such event exists.
func (t *Timelapse) SetHostname(id, hostname string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(t.events) - 1; i >= 0; i-- {
		if t.events[i].ID == id {
			t.events[i].Hostname = hostname
			return true
		}
	}
	return false
}

// AnonymizeIP partially masks an address before it is persisted, matching
// the format the timelapse viewer expects.
func AnonymizeIP(ip string) string {
	return strings.ReplaceAll(ip, ":", "_")
}
