package season

import (
	"fmt"
	"time"
)

// Season is one competition year of a league.
type Season struct {
	ID        string
	LeagueID  string
	Name      string
	Year      int
	StartDate time.Time
	EndDate   time.Time
}

func (s Season) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("season id is required")
	}
	if s.LeagueID == "" {
		return fmt.Errorf("season league id is required")
	}
	if s.Year <= 0 {
		return fmt.Errorf("season year must be greater than zero")
	}

	return nil
}
