package memory

import (
	"context"
	"fmt"

	"github.com/pickemhq/schedule-sync/internal/domain/season"
)

type SeasonRepository struct {
	store *Store
}

func (r *SeasonRepository) List(_ context.Context) ([]season.Season, error) {
	return r.store.Seasons(), nil
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.state.seasons {
		if item.ID == seasonID {
			return item, true, nil
		}
	}
	return season.Season{}, false, nil
}

func (r *SeasonRepository) LatestByLeague(_ context.Context, leagueID string) (season.Season, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var (
		latest season.Season
		found  bool
	)
	for _, item := range r.store.state.seasons {
		if item.LeagueID != leagueID {
			continue
		}
		if !found || item.Year > latest.Year {
			latest = item
			found = true
		}
	}
	return latest, found, nil
}

func (r *SeasonRepository) Create(_ context.Context, item season.Season) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate season: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.state.seasons {
		if existing.ID == item.ID {
			return fmt.Errorf("season %s already exists", item.ID)
		}
	}
	r.store.state.seasons = append(r.store.state.seasons, item)
	return nil
}

func (r *SeasonRepository) Update(_ context.Context, item season.Season) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate season: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, existing := range r.store.state.seasons {
		if existing.ID == item.ID {
			r.store.state.seasons[i] = item
			return nil
		}
	}
	return fmt.Errorf("season %s does not exist", item.ID)
}
