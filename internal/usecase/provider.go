package usecase

import (
	"context"
	"time"
)

// ScheduleProvider is the external schedule API as the sync engine sees it:
// listing URLs in, deserialized records out. Pagination, reference resolution
// and retries live behind this interface.
type ScheduleProvider interface {
	FetchLeague(ctx context.Context, ref string) (ExternalLeague, error)
	FetchSeasons(ctx context.Context, listingURL string) ([]ExternalSeason, error)
	FetchTeams(ctx context.Context, listingURL string) ([]ExternalTeam, error)
}

type ExternalLeague struct {
	ExternalID string
	Name       string
	Slug       string
	SeasonsRef string
}

type ExternalSeason struct {
	ExternalID string
	Name       string
	Year       int
	StartDate  time.Time
	EndDate    time.Time
	// Metadata carries provider-specific leftovers (slug, self ref, team
	// listing ref) stored opaquely on the season's external mapping.
	Metadata map[string]any
}

type ExternalTeam struct {
	ExternalID   string
	Name         string
	Location     string
	Abbreviation string
	DisplayName  string
	LogoURL      string
	AltLogoURL   string
	Metadata     map[string]any
}
