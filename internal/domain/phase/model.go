package phase

import (
	"fmt"
	"time"
)

// Phase is one weekly competition window inside a season. Picks for events in
// the window may not change after PicksLockAt.
type Phase struct {
	ID          string
	SeasonID    string
	Label       string
	Sequence    int
	StartsAt    time.Time
	EndsAt      time.Time
	PicksLockAt time.Time
}

func (p Phase) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("phase id is required")
	}
	if p.SeasonID == "" {
		return fmt.Errorf("phase season id is required")
	}
	if p.Sequence <= 0 {
		return fmt.Errorf("phase sequence must be greater than zero")
	}
	if p.StartsAt.IsZero() {
		return fmt.Errorf("phase start is required")
	}

	return nil
}
