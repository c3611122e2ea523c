// Package clock provides the single time source the Sync Engine, Board
// Service, and Task Service depend on, so tests can substitute a fixed
// instant instead of racing against time.Now (spec §6's "a clock returning
// current UTC time" collaborator surface).
package clock

import "time"

// Clock returns the current instant, always in UTC.
type Clock interface {
	Now() time.Time
}

// Real is the production Clock, backed by time.Now.
type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

// Fixed is a Clock that always returns the same instant, for tests.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f).UTC() }
