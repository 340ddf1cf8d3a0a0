package league

import "fmt"

// League is a sport league whose schedule is synced from a provider.
type League struct {
	ID       string
	Name     string
	Slug     string
	Sport    string
	Timezone string
	IsActive bool
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Timezone == "" {
		return fmt.Errorf("league timezone is required")
	}

	return nil
}
