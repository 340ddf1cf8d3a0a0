package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/pickemhq/schedule-sync/internal/domain/extmap"
	"github.com/pickemhq/schedule-sync/internal/domain/league"
	"github.com/pickemhq/schedule-sync/internal/domain/season"
	"github.com/pickemhq/schedule-sync/internal/domain/team"
	"github.com/pickemhq/schedule-sync/internal/platform/id"
	"github.com/pickemhq/schedule-sync/internal/platform/logging"
)

// TeamSyncService reconciles provider team rosters for the latest known
// season of each active league. Leagues without a local season, or whose
// season was never mapped to the provider, are skipped: a roster fetch needs
// a season-scoped listing and seeding one by guesswork would misattribute
// teams. The whole pass runs in one transaction.
type TeamSyncService struct {
	tx       TxRunner
	provider ScheduleProvider
	ids      id.Generator
	cfg      SyncConfig
	logger   *logging.Logger
}

func NewTeamSyncService(
	tx TxRunner,
	provider ScheduleProvider,
	ids id.Generator,
	cfg SyncConfig,
	logger *logging.Logger,
) *TeamSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamSyncService{
		tx:       tx,
		provider: provider,
		ids:      ids,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *TeamSyncService) SyncTeams(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamSyncService.SyncTeams")
	defer span.End()

	if !s.cfg.Enabled {
		s.logger.WarnContext(ctx, "skip team sync: schedule sync is disabled")
		return fmt.Errorf("%w: schedule sync is disabled (SYNC_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.tx == nil || s.provider == nil || s.ids == nil {
		s.logger.WarnContext(ctx, "skip team sync: service is not fully configured",
			"tx_nil", s.tx == nil,
			"provider_nil", s.provider == nil,
			"ids_nil", s.ids == nil,
		)
		return fmt.Errorf("%w: team sync service is not fully configured", ErrDependencyUnavailable)
	}

	return s.tx.InTx(ctx, func(ctx context.Context, st Stores) error {
		src, found, err := st.DataSources.GetByName(ctx, s.cfg.SourceName)
		if err != nil {
			return fmt.Errorf("get data source %q: %w", s.cfg.SourceName, err)
		}
		if !found {
			return fmt.Errorf("%w: data source %q is not seeded", ErrNotFound, s.cfg.SourceName)
		}

		leagues, err := st.Leagues.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("list active leagues: %w", err)
		}

		for _, lg := range leagues {
			if err := s.syncLeagueTeams(ctx, st, src.ID, src.Name, lg); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *TeamSyncService) syncLeagueTeams(
	ctx context.Context,
	st Stores,
	dataSourceID int64,
	sourceName string,
	lg league.League,
) error {
	leagueMapping, found, err := st.Mappings.FindByLocalID(ctx, dataSourceID, extmap.EntityLeague, lg.ID)
	if err != nil {
		return fmt.Errorf("find league mapping league=%s: %w", lg.ID, err)
	}
	if !found {
		s.logger.WarnContext(ctx, "skip league: no provider mapping",
			"league_id", lg.ID,
			"source", sourceName,
		)
		return nil
	}

	latest, found, err := st.Seasons.LatestByLeague(ctx, lg.ID)
	if err != nil {
		return fmt.Errorf("latest season league=%s: %w", lg.ID, err)
	}
	if !found {
		s.logger.WarnContext(ctx, "skip league: no local season; run season sync first",
			"league_id", lg.ID,
		)
		return nil
	}

	seasonMapping, found, err := st.Mappings.FindByLocalID(ctx, dataSourceID, extmap.EntitySeason, latest.ID)
	if err != nil {
		return fmt.Errorf("find season mapping season=%s: %w", latest.ID, err)
	}
	if !found {
		s.logger.WarnContext(ctx, "skip league: latest season has no provider mapping",
			"league_id", lg.ID,
			"season_id", latest.ID,
		)
		return nil
	}

	listingURL := teamsListingURL(leagueMapping, seasonMapping, latest)
	if listingURL == "" {
		s.logger.WarnContext(ctx, "skip league: mappings carry no usable provider ref",
			"league_id", lg.ID,
			"season_id", latest.ID,
		)
		return nil
	}

	records, err := s.provider.FetchTeams(ctx, listingURL)
	if err != nil {
		return fmt.Errorf("fetch teams league=%s season=%s: %w", lg.ID, latest.ID, err)
	}

	stats, err := reconcileRecords(ctx, st, dataSourceID, records, s.teamHooks(lg), s.logger)
	if err != nil {
		return fmt.Errorf("reconcile teams league=%s: %w", lg.ID, err)
	}
	s.logger.InfoContext(ctx, "teams reconciled",
		"league_id", lg.ID,
		"season_id", latest.ID,
		"fetched", len(records),
		"created", stats.Created,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
	)
	return nil
}

// teamsListingURL prefers the season mapping's explicit listing ref and falls
// back to the conventional season-scoped path under the league resource.
func teamsListingURL(leagueMapping, seasonMapping extmap.Mapping, latest season.Season) string {
	if ref := seasonMapping.MetaString(metaKeyTeamsRef); ref != "" {
		return ref
	}
	if ref := seasonMapping.MetaString(metaKeyRef); ref != "" {
		return strings.TrimRight(ref, "/") + "/teams"
	}
	if ref := leagueMapping.MetaString(metaKeyRef); ref != "" {
		return strings.TrimRight(ref, "/") + fmt.Sprintf("/seasons/%d/teams", latest.Year)
	}
	return ""
}

func (s *TeamSyncService) teamHooks(lg league.League) reconcileHooks[ExternalTeam] {
	return reconcileHooks[ExternalTeam]{
		entityType: extmap.EntityTeam,
		externalID: func(rec ExternalTeam) string { return rec.ExternalID },
		metadata:   func(rec ExternalTeam) map[string]any { return rec.Metadata },
		validate: func(rec ExternalTeam) error {
			if strings.TrimSpace(rec.Name) == "" && strings.TrimSpace(rec.DisplayName) == "" {
				return fmt.Errorf("team name is missing")
			}
			return nil
		},
		create: func(ctx context.Context, st Stores, rec ExternalTeam) (string, error) {
			localID, err := s.ids.NewID("team")
			if err != nil {
				return "", fmt.Errorf("generate team id: %w", err)
			}
			item := mapExternalTeamToDomain(localID, lg.ID, rec)
			if err := st.Teams.Create(ctx, item); err != nil {
				return "", err
			}
			return localID, nil
		},
		update: func(ctx context.Context, st Stores, localID string, rec ExternalTeam) error {
			return st.Teams.Update(ctx, mapExternalTeamToDomain(localID, lg.ID, rec))
		},
	}
}

func mapExternalTeamToDomain(localID, leagueID string, rec ExternalTeam) team.Team {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		name = strings.TrimSpace(rec.DisplayName)
	}

	return team.Team{
		ID:           localID,
		LeagueID:     leagueID,
		Name:         name,
		Location:     strings.TrimSpace(rec.Location),
		Abbreviation: strings.TrimSpace(rec.Abbreviation),
		LogoURL:      rec.LogoURL,
		AltLogoURL:   rec.AltLogoURL,
	}
}
