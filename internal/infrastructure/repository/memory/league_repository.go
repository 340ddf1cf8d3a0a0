package memory

import (
	"context"

	"github.com/pickemhq/schedule-sync/internal/domain/league"
)

type LeagueRepository struct {
	store *Store
}

func (r *LeagueRepository) ListActive(_ context.Context) ([]league.League, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]league.League, 0, len(r.store.state.leagues))
	for _, item := range r.store.state.leagues {
		if item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.state.leagues {
		if item.ID == leagueID {
			return item, true, nil
		}
	}
	return league.League{}, false, nil
}
