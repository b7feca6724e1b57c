// Package progress defines the one-way event sink the benchmark run reports
// through. The core never blocks on a sink consuming an event.
package progress

import (
	"time"

	"querybench/internal/aggregate"
)

// Status is the lifecycle state of one unit.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Event is one discrete status transition or completion-fraction update for
// a unit. Percent is within [0,100] and increases strictly for a given unit.
type Event struct {
	UnitID    string
	Status    Status
	Percent   float64
	StartedAt time.Time
	EndedAt   time.Time // zero until the unit reaches a terminal status
	Err       string    // human-readable; never a stack trace
}

// Reporter receives unit events plus exactly one terminal aggregate event
// after the last unit.
type Reporter interface {
	UnitEvent(Event)
	RunComplete(summary aggregate.Summary)
}

// Nop discards all events.
type Nop struct{}

func (Nop) UnitEvent(Event)               {}
func (Nop) RunComplete(aggregate.Summary) {}
