package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"

	"github.com/pickemhq/schedule-sync/internal/domain/phase"
	"github.com/pickemhq/schedule-sync/internal/platform/logging"
)

const defaultReseedWorkers = 4

// PhaseReseedService recomputes phase windows from the current window policy.
// Each phase keeps its anchor: the stored start instant seeds the
// recomputation, so running a reseed twice changes nothing.
type PhaseReseedService struct {
	tx         TxRunner
	maxWorkers int
	logger     *logging.Logger
}

// ReseedReport summarizes a reseed pass over one or more seasons.
type ReseedReport struct {
	SeasonsProcessed int
	SeasonsFailed    int
	PhasesUpdated    int
}

func NewPhaseReseedService(tx TxRunner, maxWorkers int, logger *logging.Logger) *PhaseReseedService {
	if maxWorkers <= 0 {
		maxWorkers = defaultReseedWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &PhaseReseedService{
		tx:         tx,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// ReseedSeason recomputes every phase window of one season inside a single
// transaction. Unknown seasons and seasons whose league carries a bad
// timezone abort without writing.
func (s *PhaseReseedService) ReseedSeason(ctx context.Context, seasonID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PhaseReseedService.ReseedSeason")
	defer span.End()

	if s.tx == nil {
		return 0, fmt.Errorf("%w: phase reseed service is not fully configured", ErrDependencyUnavailable)
	}

	var updated int
	err := s.tx.InTx(ctx, func(ctx context.Context, st Stores) error {
		n, err := reseedSeasonPhases(ctx, st, seasonID)
		if err != nil {
			return err
		}
		updated = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "season phases reseeded",
		"season_id", seasonID,
		"phases_updated", updated,
	)
	return updated, nil
}

// ReseedAll reseeds every known season concurrently, one transaction per
// season so a bad season cannot roll back its siblings.
func (s *PhaseReseedService) ReseedAll(ctx context.Context) (ReseedReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PhaseReseedService.ReseedAll")
	defer span.End()

	if s.tx == nil {
		return ReseedReport{}, fmt.Errorf("%w: phase reseed service is not fully configured", ErrDependencyUnavailable)
	}

	var seasonIDs []string
	err := s.tx.InTx(ctx, func(ctx context.Context, st Stores) error {
		seasons, err := st.Seasons.List(ctx)
		if err != nil {
			return fmt.Errorf("list seasons: %w", err)
		}
		seasonIDs = make([]string, 0, len(seasons))
		for _, sn := range seasons {
			seasonIDs = append(seasonIDs, sn.ID)
		}
		return nil
	})
	if err != nil {
		return ReseedReport{}, err
	}

	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		return ReseedReport{}, fmt.Errorf("create reseed worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu     sync.Mutex
		report ReseedReport
		wg     sync.WaitGroup
	)
	for _, seasonID := range seasonIDs {
		seasonID := seasonID
		task := func() {
			defer wg.Done()
			var (
				updated int
				err     error
			)
			if recovered := panics.Try(func() {
				updated, err = s.ReseedSeason(ctx, seasonID)
			}); recovered != nil {
				err = recovered.AsError()
			}

			mu.Lock()
			defer mu.Unlock()
			report.SeasonsProcessed++
			if err != nil {
				report.SeasonsFailed++
				s.logger.ErrorContext(ctx, "season reseed failed",
					"season_id", seasonID,
					"error", err,
				)
				return
			}
			report.PhasesUpdated += updated
		}

		wg.Add(1)
		if err := pool.Submit(task); err != nil {
			// Pool rejected the task; run it inline instead of losing
			// the season.
			task()
		}
	}
	wg.Wait()

	s.logger.InfoContext(ctx, "reseed pass finished",
		"seasons_processed", report.SeasonsProcessed,
		"seasons_failed", report.SeasonsFailed,
		"phases_updated", report.PhasesUpdated,
	)
	return report, nil
}

func reseedSeasonPhases(ctx context.Context, st Stores, seasonID string) (int, error) {
	sn, found, err := st.Seasons.GetByID(ctx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("get season %s: %w", seasonID, err)
	}
	if !found {
		return 0, fmt.Errorf("%w: season %s", ErrNotFound, seasonID)
	}

	lg, found, err := st.Leagues.GetByID(ctx, sn.LeagueID)
	if err != nil {
		return 0, fmt.Errorf("get league %s: %w", sn.LeagueID, err)
	}
	if !found {
		return 0, fmt.Errorf("%w: league %s for season %s", ErrNotFound, sn.LeagueID, seasonID)
	}

	calc, err := phase.NewWindowCalculator(phase.DefaultWindowPolicy(lg.Timezone))
	if err != nil {
		return 0, fmt.Errorf("window calculator league=%s: %w", lg.ID, err)
	}

	phases, err := st.Phases.ListBySeason(ctx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("list phases season=%s: %w", seasonID, err)
	}

	var updated int
	for _, ph := range phases {
		start, end, pickLock := calc.Window(ph.StartsAt)
		if start.Equal(ph.StartsAt) && end.Equal(ph.EndsAt) && pickLock.Equal(ph.PicksLockAt) {
			continue
		}
		if err := st.Phases.UpdateWindows(ctx, ph.ID, start, end, pickLock); err != nil {
			return 0, fmt.Errorf("update phase %s: %w", ph.ID, err)
		}
		updated++
	}
	return updated, nil
}
