// Package clock abstracts wall time so reconciliation payments get
// deterministic timestamps in tests.
package clock

import (
	"time"

	"go.uber.org/fx"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystem returns the wall clock.
func NewSystem() Clock { return systemClock{} }

// Module wires the system clock.
var Module = fx.Module("clock",
	fx.Provide(NewSystem),
)
