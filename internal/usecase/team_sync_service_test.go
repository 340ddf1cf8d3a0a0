package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pickemhq/schedule-sync/internal/domain/extmap"
	"github.com/pickemhq/schedule-sync/internal/domain/league"
	"github.com/pickemhq/schedule-sync/internal/domain/season"
	"github.com/pickemhq/schedule-sync/internal/infrastructure/repository/memory"
	"github.com/pickemhq/schedule-sync/internal/platform/logging"
	"github.com/pickemhq/schedule-sync/internal/usecase"
)

func seedTeamSyncFixture(store *memory.Store) {
	seedSyncFixture(store)
	store.SeedSeason(season.Season{
		ID:        "ssn-2024",
		LeagueID:  "lg-nfl",
		Name:      "2024 Season",
		Year:      2024,
		StartDate: time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC),
	})
	store.SeedMapping(extmap.Mapping{
		DataSourceID: 1,
		EntityType:   extmap.EntitySeason,
		ExternalID:   "2024",
		LocalID:      "ssn-2024",
		Metadata: map[string]any{
			"ref":      "https://provider.example/v2/leagues/nfl/seasons/2024",
			"teamsRef": "https://provider.example/v2/leagues/nfl/seasons/2024/teams",
		},
	})
}

func externalTeamFixture(id, name string) usecase.ExternalTeam {
	return usecase.ExternalTeam{
		ExternalID:   id,
		Name:         name,
		Location:     "Somewhere",
		Abbreviation: "SMW",
		DisplayName:  "Somewhere " + name,
		LogoURL:      "https://provider.example/logos/" + id + ".png",
		Metadata:     map[string]any{"ref": "https://provider.example/v2/teams/" + id},
	}
}

func TestTeamSyncCreatesTeamsForLatestSeason(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedTeamSyncFixture(store)

	provider := &stubProvider{
		fetchTeamsFn: func(_ context.Context, _ string) ([]usecase.ExternalTeam, error) {
			return []usecase.ExternalTeam{
				externalTeamFixture("12", "Chiefs"),
				externalTeamFixture("25", "49ers"),
			}, nil
		},
	}
	svc := usecase.NewTeamSyncService(store, provider, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())

	if err := svc.SyncTeams(context.Background()); err != nil {
		t.Fatalf("sync teams: %v", err)
	}

	if len(provider.teamCalls) != 1 || provider.teamCalls[0] != "https://provider.example/v2/leagues/nfl/seasons/2024/teams" {
		t.Fatalf("team listing calls: got=%v", provider.teamCalls)
	}
	teams := store.Teams()
	if len(teams) != 2 {
		t.Fatalf("teams: got=%d want=2", len(teams))
	}
	for _, tm := range teams {
		if tm.LeagueID != "lg-nfl" {
			t.Fatalf("team %s league: got=%q want=%q", tm.ID, tm.LeagueID, "lg-nfl")
		}
	}
	var teamMappings int
	for _, m := range store.Mappings() {
		if m.EntityType == extmap.EntityTeam {
			teamMappings++
		}
	}
	if teamMappings != 2 {
		t.Fatalf("team mappings: got=%d want=2", teamMappings)
	}
}

func TestTeamSyncIsIdempotent(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedTeamSyncFixture(store)

	provider := &stubProvider{
		fetchTeamsFn: func(_ context.Context, _ string) ([]usecase.ExternalTeam, error) {
			return []usecase.ExternalTeam{externalTeamFixture("12", "Chiefs")}, nil
		},
	}
	svc := usecase.NewTeamSyncService(store, provider, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())

	if err := svc.SyncTeams(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstID := store.Teams()[0].ID
	if err := svc.SyncTeams(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	teams := store.Teams()
	if len(teams) != 1 {
		t.Fatalf("teams after rerun: got=%d want=1", len(teams))
	}
	if teams[0].ID != firstID {
		t.Fatalf("team id changed across runs: got=%q want=%q", teams[0].ID, firstID)
	}
}

func TestTeamSyncSkipsLeagueWithoutSeason(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedSyncFixture(store) // mapped league, no seasons

	provider := &stubProvider{}
	svc := usecase.NewTeamSyncService(store, provider, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())

	if err := svc.SyncTeams(context.Background()); err != nil {
		t.Fatalf("sync teams: %v", err)
	}
	if len(provider.teamCalls) != 0 {
		t.Fatalf("league without a season must not be fetched, got calls: %v", provider.teamCalls)
	}
}

func TestTeamSyncSkipsUnmappedSeason(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedSyncFixture(store)
	store.SeedSeason(season.Season{
		ID:       "ssn-2024",
		LeagueID: "lg-nfl",
		Name:     "2024 Season",
		Year:     2024,
	})

	provider := &stubProvider{}
	svc := usecase.NewTeamSyncService(store, provider, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())

	if err := svc.SyncTeams(context.Background()); err != nil {
		t.Fatalf("sync teams: %v", err)
	}
	if len(provider.teamCalls) != 0 {
		t.Fatalf("unmapped season must not be fetched, got calls: %v", provider.teamCalls)
	}
	if len(store.Teams()) != 0 {
		t.Fatalf("no teams expected, got %d", len(store.Teams()))
	}
}

func TestTeamSyncAbortsWhenDataSourceMissing(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	store.SeedLeague(league.League{ID: "lg-nfl", Name: "NFL", Timezone: "UTC", IsActive: true})

	svc := usecase.NewTeamSyncService(store, &stubProvider{}, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())
	err := svc.SyncTeams(context.Background())
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTeamSyncRollsBackOnFetchFailure(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedTeamSyncFixture(store)

	provider := &stubProvider{
		fetchTeamsFn: func(_ context.Context, _ string) ([]usecase.ExternalTeam, error) {
			return nil, fmt.Errorf("%w: provider returned status 500", usecase.ErrFetchFailed)
		},
	}
	svc := usecase.NewTeamSyncService(store, provider, &seqIDGen{}, enabledSyncConfig(), logging.NewNop())

	err := svc.SyncTeams(context.Background())
	if !errors.Is(err, usecase.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if len(store.Teams()) != 0 {
		t.Fatalf("teams after rollback: got=%d want=0", len(store.Teams()))
	}
}
