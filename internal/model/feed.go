package model

import "time"

const (
	VisitorKnown   = "known"
	VisitorUnknown = "unknown"
)

// VisitorEvent is a mock doorbell event shown on the dashboard feed.
// Events are generated when the dashboard view is built and never stored.
type VisitorEvent struct {
	ID         string    `json:"id"`
	Visitor    string    `json:"visitor"`
	Status     string    `json:"status"`
	Camera     string    `json:"camera"`
	Confidence int       `json:"confidence"`
	At         time.Time `json:"at"`
}

// Dashboard is everything the dashboard page renders for one user.
type Dashboard struct {
	HasFamily bool            `json:"hasFamily"`
	Family    *FamilySummary  `json:"family"`
	Doorbells []*Doorbell     `json:"doorbells"`
	Feed      []*VisitorEvent `json:"feed"`
	BuiltAt   time.Time       `json:"builtAt"`
}

func (d *Dashboard) UnknownVisitors() int {
	n := 0
	for _, e := range d.Feed {
		if e.Status == VisitorUnknown {
			n++
		}
	}
	return n
}
