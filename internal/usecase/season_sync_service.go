package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/pickemhq/schedule-sync/internal/domain/extmap"
	"github.com/pickemhq/schedule-sync/internal/domain/league"
	"github.com/pickemhq/schedule-sync/internal/domain/season"
	"github.com/pickemhq/schedule-sync/internal/platform/id"
	"github.com/pickemhq/schedule-sync/internal/platform/logging"
)

// Mapping metadata keys the sync services understand. "ref" is the provider's
// self link for the mapped resource; the listing refs point at paginated
// collections underneath it.
const (
	metaKeyRef        = "ref"
	metaKeySeasonsRef = "seasonsRef"
	metaKeyTeamsRef   = "teamsRef"
)

// SyncConfig gates and scopes schedule sync runs.
type SyncConfig struct {
	Enabled    bool
	SourceName string
}

// SeasonSyncService pulls every active league's seasons from the provider and
// reconciles them into local records. One invocation is one transaction: a
// provider failure mid-pass leaves the store untouched.
type SeasonSyncService struct {
	tx       TxRunner
	provider ScheduleProvider
	ids      id.Generator
	cfg      SyncConfig
	logger   *logging.Logger
}

func NewSeasonSyncService(
	tx TxRunner,
	provider ScheduleProvider,
	ids id.Generator,
	cfg SyncConfig,
	logger *logging.Logger,
) *SeasonSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SeasonSyncService{
		tx:       tx,
		provider: provider,
		ids:      ids,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *SeasonSyncService) SyncSeasons(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonSyncService.SyncSeasons")
	defer span.End()

	if !s.cfg.Enabled {
		s.logger.WarnContext(ctx, "skip season sync: schedule sync is disabled")
		return fmt.Errorf("%w: schedule sync is disabled (SYNC_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.tx == nil || s.provider == nil || s.ids == nil {
		s.logger.WarnContext(ctx, "skip season sync: service is not fully configured",
			"tx_nil", s.tx == nil,
			"provider_nil", s.provider == nil,
			"ids_nil", s.ids == nil,
		)
		return fmt.Errorf("%w: season sync service is not fully configured", ErrDependencyUnavailable)
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
			mapping, found, err := st.Mappings.FindByLocalID(ctx, src.ID, extmap.EntityLeague, lg.ID)
			if err != nil {
				return fmt.Errorf("find league mapping league=%s: %w", lg.ID, err)
			}
			if !found {
				s.logger.WarnContext(ctx, "skip league: no provider mapping",
					"league_id", lg.ID,
					"source", src.Name,
				)
				continue
			}

			listingURL, err := s.seasonsListingURL(ctx, mapping)
			if err != nil {
				return fmt.Errorf("resolve seasons listing league=%s: %w", lg.ID, err)
			}
			if listingURL == "" {
				s.logger.WarnContext(ctx, "skip league: mapping has no usable provider ref",
					"league_id", lg.ID,
					"source", src.Name,
				)
				continue
			}

			records, err := s.provider.FetchSeasons(ctx, listingURL)
			if err != nil {
				return fmt.Errorf("fetch seasons league=%s: %w", lg.ID, err)
			}

			stats, err := reconcileRecords(ctx, st, src.ID, records, s.seasonHooks(lg), s.logger)
			if err != nil {
				return fmt.Errorf("reconcile seasons league=%s: %w", lg.ID, err)
			}
			s.logger.InfoContext(ctx, "seasons reconciled",
				"league_id", lg.ID,
				"fetched", len(records),
				"created", stats.Created,
				"updated", stats.Updated,
				"skipped", stats.Skipped,
			)
		}

		return nil
	})
}

// seasonsListingURL prefers an explicit listing ref on the league mapping and
// otherwise resolves the league resource to discover one.
func (s *SeasonSyncService) seasonsListingURL(ctx context.Context, mapping extmap.Mapping) (string, error) {
	if ref := mapping.MetaString(metaKeySeasonsRef); ref != "" {
		return ref, nil
	}

	selfRef := mapping.MetaString(metaKeyRef)
	if selfRef == "" {
		return "", nil
	}

	remote, err := s.provider.FetchLeague(ctx, selfRef)
	if err != nil {
		return "", fmt.Errorf("fetch league resource: %w", err)
	}
	if ref := strings.TrimSpace(remote.SeasonsRef); ref != "" {
		return ref, nil
	}
	return strings.TrimRight(selfRef, "/") + "/seasons", nil
}

func (s *SeasonSyncService) seasonHooks(lg league.League) reconcileHooks[ExternalSeason] {
	return reconcileHooks[ExternalSeason]{
		entityType: extmap.EntitySeason,
		externalID: func(rec ExternalSeason) string { return rec.ExternalID },
		metadata:   func(rec ExternalSeason) map[string]any { return rec.Metadata },
		validate: func(rec ExternalSeason) error {
			if rec.Year <= 0 {
				return fmt.Errorf("season year is missing")
			}
			if rec.StartDate.IsZero() || rec.EndDate.IsZero() {
				return fmt.Errorf("season dates are missing")
			}
			return nil
		},
		create: func(ctx context.Context, st Stores, rec ExternalSeason) (string, error) {
			localID, err := s.ids.NewID("ssn")
			if err != nil {
				return "", fmt.Errorf("generate season id: %w", err)
			}
			item := mapExternalSeasonToDomain(localID, lg.ID, rec)
			if err := st.Seasons.Create(ctx, item); err != nil {
				return "", err
			}
			return localID, nil
		},
		update: func(ctx context.Context, st Stores, localID string, rec ExternalSeason) error {
			return st.Seasons.Update(ctx, mapExternalSeasonToDomain(localID, lg.ID, rec))
		},
	}
}

func mapExternalSeasonToDomain(localID, leagueID string, rec ExternalSeason) season.Season {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		name = fmt.Sprintf("%d Season", rec.Year)
	}

	return season.Season{
		ID:        localID,
		LeagueID:  leagueID,
		Name:      name,
		Year:      rec.Year,
		StartDate: rec.StartDate.UTC(),
		EndDate:   rec.EndDate.UTC(),
	}
}
