package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pickemhq/schedule-sync/internal/domain/datasource"
	"github.com/pickemhq/schedule-sync/internal/domain/extmap"
	"github.com/pickemhq/schedule-sync/internal/domain/league"
	"github.com/pickemhq/schedule-sync/internal/infrastructure/repository/memory"
	"github.com/pickemhq/schedule-sync/internal/platform/logging"
	"github.com/pickemhq/schedule-sync/internal/usecase"
)

// stubProvider implements usecase.ScheduleProvider with per-method callbacks
// and call counters.
type stubProvider struct {
	mu sync.Mutex

	fetchLeagueFn func(ctx context.Context, ref string) (usecase.ExternalLeague, error)
	fetchSeasonFn func(ctx context.Context, listingURL string) ([]usecase.ExternalSeason, error)
	fetchTeamsFn  func(ctx context.Context, listingURL string) ([]usecase.ExternalTeam, error)

	leagueCalls []string
	seasonCalls []string
	teamCalls   []string
}

func (p *stubProvider) FetchLeague(ctx context.Context, ref string) (usecase.ExternalLeague, error) {
	p.mu.Lock()
	p.leagueCalls = append(p.leagueCalls, ref)
	p.mu.Unlock()
	if p.fetchLeagueFn == nil {
		return usecase.ExternalLeague{}, fmt.Errorf("unexpected FetchLeague(%s)", ref)
	}
	return p.fetchLeagueFn(ctx, ref)
}

func (p *stubProvider) FetchSeasons(ctx context.Context, listingURL string) ([]usecase.ExternalSeason, error) {
	p.mu.Lock()
	p.seasonCalls = append(p.seasonCalls, listingURL)
	p.mu.Unlock()
	if p.fetchSeasonFn == nil {
		return nil, fmt.Errorf("unexpected FetchSeasons(%s)", listingURL)
	}
	return p.fetchSeasonFn(ctx, listingURL)
}

func (p *stubProvider) FetchTeams(ctx context.Context, listingURL string) ([]usecase.ExternalTeam, error) {
	p.mu.Lock()
	p.teamCalls = append(p.teamCalls, listingURL)
	p.mu.Unlock()
	if p.fetchTeamsFn == nil {
		return nil, fmt.Errorf("unexpected FetchTeams(%s)", listingURL)
	}
	return p.fetchTeamsFn(ctx, listingURL)
}

// seqIDGen hands out deterministic ids: <prefix>-1, <prefix>-2, ...
type seqIDGen struct {
	mu   sync.Mutex
	next int
}

func (g *seqIDGen) NewID(prefix string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", prefix, g.next), nil
}

func enabledSyncConfig() usecase.SyncConfig {
	return usecase.SyncConfig{Enabled: true, SourceName: "ESPN"}
}

func seedSyncFixture(store *memory.Store) {
	store.SeedDataSource(datasource.DataSource{ID: 1, Name: "ESPN"})
	store.SeedLeague(league.League{
		ID:       "lg-nfl",
		Name:     "National Football League",
		Slug:     "nfl",
		Sport:    "football",
		Timezone: "America/New_York",
		IsActive: true,
	})
	store.SeedMapping(extmap.Mapping{
		DataSourceID: 1,
		EntityType:   extmap.EntityLeague,
		ExternalID:   "28",
		LocalID:      "lg-nfl",
		Metadata: map[string]any{
			"ref":        "https://provider.example/v2/leagues/nfl",
			"seasonsRef": "https://provider.example/v2/leagues/nfl/seasons",
		},
	})
}

func externalSeasonFixture(year int) usecase.ExternalSeason {
	return usecase.ExternalSeason{
		ExternalID: fmt.Sprintf("%d", year),
		Name:       "",
		Year:       year,
		StartDate:  time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(year+1, time.February, 15, 0, 0, 0, 0, time.UTC),
		Metadata: map[string]any{
			"ref":      fmt.Sprintf("https://provider.example/v2/leagues/nfl/seasons/%d", year),
			"teamsRef": fmt.Sprintf("https://provider.example/v2/leagues/nfl/seasons/%d/teams", year),
		},
	}
}

func TestSeasonSyncCreatesSeasonsAndMappings(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedSyncFixture(store)

	provider := &stubProvider{
		fetchSeasonFn: func(_ context.Context, _ string) ([]usecase.ExternalSeason, error) {
			return []usecase.ExternalSeason{externalSeasonFixture(2023), externalSeasonFixture(2024)}, nil
		},
	}
	svc := usecase.NewSeasonSyncService(store, provider, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())

	if err := svc.SyncSeasons(context.Background()); err != nil {
		t.Fatalf("sync seasons: %v", err)
	}

	seasons := store.Seasons()
	if len(seasons) != 2 {
		t.Fatalf("seasons: got=%d want=2", len(seasons))
	}
	for _, sn := range seasons {
		if sn.LeagueID != "lg-nfl" {
			t.Fatalf("season %s league: got=%q want=%q", sn.ID, sn.LeagueID, "lg-nfl")
		}
		want := fmt.Sprintf("%d Season", sn.Year)
		if sn.Name != want {
			t.Fatalf("season %s name fallback: got=%q want=%q", sn.ID, sn.Name, want)
		}
	}

	var seasonMappings int
	for _, m := range store.Mappings() {
		if m.EntityType != extmap.EntitySeason {
			continue
		}
		seasonMappings++
		if m.MetaString("teamsRef") == "" {
			t.Fatalf("season mapping %s lost its teamsRef metadata", m.ExternalID)
		}
	}
	if seasonMappings != 2 {
		t.Fatalf("season mappings: got=%d want=2", seasonMappings)
	}
}

func TestSeasonSyncIsIdempotent(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedSyncFixture(store)

	provider := &stubProvider{
		fetchSeasonFn: func(_ context.Context, _ string) ([]usecase.ExternalSeason, error) {
			return []usecase.ExternalSeason{externalSeasonFixture(2024)}, nil
		},
	}
	svc := usecase.NewSeasonSyncService(store, provider, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())

	if err := svc.SyncSeasons(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstID := store.Seasons()[0].ID

	if err := svc.SyncSeasons(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	seasons := store.Seasons()
	if len(seasons) != 1 {
		t.Fatalf("seasons after rerun: got=%d want=1", len(seasons))
	}
	if seasons[0].ID != firstID {
		t.Fatalf("season id changed across runs: got=%q want=%q", seasons[0].ID, firstID)
	}
	var mappings int
	for _, m := range store.Mappings() {
		if m.EntityType == extmap.EntitySeason {
			mappings++
		}
	}
	if mappings != 1 {
		t.Fatalf("season mappings after rerun: got=%d want=1", mappings)
	}
}

func TestSeasonSyncUpdatesChangedRecords(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedSyncFixture(store)

	rec := externalSeasonFixture(2024)
	provider := &stubProvider{
		fetchSeasonFn: func(_ context.Context, _ string) ([]usecase.ExternalSeason, error) {
			return []usecase.ExternalSeason{rec}, nil
		},
	}
	svc := usecase.NewSeasonSyncService(store, provider, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())

	if err := svc.SyncSeasons(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	rec.Name = "2024 Regular Season"
	rec.EndDate = rec.EndDate.AddDate(0, 0, 7)
	if err := svc.SyncSeasons(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	seasons := store.Seasons()
	if len(seasons) != 1 {
		t.Fatalf("seasons: got=%d want=1", len(seasons))
	}
	if seasons[0].Name != "2024 Regular Season" {
		t.Fatalf("season name not updated: got=%q", seasons[0].Name)
	}
	if !seasons[0].EndDate.Equal(rec.EndDate) {
		t.Fatalf("season end date not updated: got=%s want=%s", seasons[0].EndDate, rec.EndDate)
	}
}

func TestSeasonSyncSkipsUnmappedLeague(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	store.SeedDataSource(datasource.DataSource{ID: 1, Name: "ESPN"})
	store.SeedLeague(league.League{
		ID:       "lg-new",
		Name:     "Brand New League",
		Timezone: "UTC",
		IsActive: true,
	})

	provider := &stubProvider{}
	svc := usecase.NewSeasonSyncService(store, provider, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())

	if err := svc.SyncSeasons(context.Background()); err != nil {
		t.Fatalf("sync seasons: %v", err)
	}
	if len(provider.seasonCalls) != 0 {
		t.Fatalf("unmapped league must not be fetched, got calls: %v", provider.seasonCalls)
	}
	if len(store.Seasons()) != 0 {
		t.Fatalf("no seasons expected, got %d", len(store.Seasons()))
	}
}

func TestSeasonSyncAbortsWhenDataSourceMissing(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	provider := &stubProvider{}
	svc := usecase.NewSeasonSyncService(store, provider, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())

	err := svc.SyncSeasons(context.Background())
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeasonSyncDisabled(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	cfg := usecase.SyncConfig{Enabled: false, SourceName: "ESPN"}
	svc := usecase.NewSeasonSyncService(store, &stubProvider{}, &seqIDGen{}, cfg, logging.NewNop())

	err := svc.SyncSeasons(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestSeasonSyncRollsBackOnFetchFailure(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedSyncFixture(store)
	store.SeedLeague(league.League{
		ID:       "lg-nba",
		Name:     "National Basketball Association",
		Timezone: "America/New_York",
		IsActive: true,
	})
	store.SeedMapping(extmap.Mapping{
		DataSourceID: 1,
		EntityType:   extmap.EntityLeague,
		ExternalID:   "46",
		LocalID:      "lg-nba",
		Metadata: map[string]any{
			"seasonsRef": "https://provider.example/v2/leagues/nba/seasons",
		},
	})

	provider := &stubProvider{
		fetchSeasonFn: func(_ context.Context, listingURL string) ([]usecase.ExternalSeason, error) {
			if listingURL == "https://provider.example/v2/leagues/nba/seasons" {
				return nil, fmt.Errorf("%w: provider returned status 503", usecase.ErrFetchFailed)
			}
			return []usecase.ExternalSeason{externalSeasonFixture(2024)}, nil
		},
	}
	svc := usecase.NewSeasonSyncService(store, provider, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())

	err := svc.SyncSeasons(context.Background())
	if !errors.Is(err, usecase.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}

	// Seasons written for the healthy league belong to the same transaction
	// and must be gone after the rollback.
	if got := len(store.Seasons()); got != 0 {
		t.Fatalf("seasons after rollback: got=%d want=0", got)
	}
	for _, m := range store.Mappings() {
		if m.EntityType == extmap.EntitySeason {
			t.Fatalf("season mapping %s survived rollback", m.ExternalID)
		}
	}
}

func TestSeasonSyncSkipsInvalidRecords(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedSyncFixture(store)

	provider := &stubProvider{
		fetchSeasonFn: func(_ context.Context, _ string) ([]usecase.ExternalSeason, error) {
			noYear := externalSeasonFixture(2024)
			noYear.ExternalID = "bogus"
			noYear.Year = 0
			noDates := externalSeasonFixture(2025)
			noDates.StartDate = time.Time{}
			return []usecase.ExternalSeason{externalSeasonFixture(2023), noYear, noDates, {}}, nil
		},
	}
	svc := usecase.NewSeasonSyncService(store, provider, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())

	if err := svc.SyncSeasons(context.Background()); err != nil {
		t.Fatalf("sync seasons: %v", err)
	}
	seasons := store.Seasons()
	if len(seasons) != 1 {
		t.Fatalf("seasons: got=%d want=1", len(seasons))
	}
	if seasons[0].Year != 2023 {
		t.Fatalf("surviving season year: got=%d want=2023", seasons[0].Year)
	}
}

func TestSeasonSyncDiscoversListingFromLeagueResource(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	store.SeedDataSource(datasource.DataSource{ID: 1, Name: "ESPN"})
	store.SeedLeague(league.League{
		ID:       "lg-nfl",
		Name:     "National Football League",
		Timezone: "America/New_York",
		IsActive: true,
	})
	// Only a self ref; the listing has to be discovered.
	store.SeedMapping(extmap.Mapping{
		DataSourceID: 1,
		EntityType:   extmap.EntityLeague,
		ExternalID:   "28",
		LocalID:      "lg-nfl",
		Metadata:     map[string]any{"ref": "https://provider.example/v2/leagues/nfl"},
	})

	provider := &stubProvider{
		fetchLeagueFn: func(_ context.Context, _ string) (usecase.ExternalLeague, error) {
			return usecase.ExternalLeague{
				ExternalID: "28",
				Name:       "NFL",
				SeasonsRef: "https://provider.example/v2/leagues/nfl/seasons?lang=en",
			}, nil
		},
		fetchSeasonFn: func(_ context.Context, _ string) ([]usecase.ExternalSeason, error) {
			return []usecase.ExternalSeason{externalSeasonFixture(2024)}, nil
		},
	}
	svc := usecase.NewSeasonSyncService(store, provider, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())

	if err := svc.SyncSeasons(context.Background()); err != nil {
		t.Fatalf("sync seasons: %v", err)
	}
	if len(provider.leagueCalls) != 1 {
		t.Fatalf("league resource fetches: got=%d want=1", len(provider.leagueCalls))
	}
	if len(provider.seasonCalls) != 1 || provider.seasonCalls[0] != "https://provider.example/v2/leagues/nfl/seasons?lang=en" {
		t.Fatalf("season listing calls: got=%v", provider.seasonCalls)
	}
}
