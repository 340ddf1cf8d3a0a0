package memory

import (
	"context"
	"fmt"

	"github.com/pickemhq/schedule-sync/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Team, 0, len(r.store.state.teams))
	for _, item := range r.store.state.teams {
		if item.LeagueID == leagueID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.state.teams {
		if item.ID == teamID {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate team: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.state.teams {
		if existing.ID == item.ID {
			return fmt.Errorf("team %s already exists", item.ID)
		}
	}
	r.store.state.teams = append(r.store.state.teams, item)
	return nil
}

func (r *TeamRepository) Update(_ context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate team: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, existing := range r.store.state.teams {
		if existing.ID == item.ID {
			r.store.state.teams[i] = item
			return nil
		}
	}
	return fmt.Errorf("team %s does not exist", item.ID)
}
