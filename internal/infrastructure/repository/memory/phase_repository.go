package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pickemhq/schedule-sync/internal/domain/phase"
)

type PhaseRepository struct {
	store *Store
}

func (r *PhaseRepository) ListBySeason(_ context.Context, seasonID string) ([]phase.Phase, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]phase.Phase, 0, len(r.store.state.phases))
	for _, item := range r.store.state.phases {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *PhaseRepository) Create(_ context.Context, item phase.Phase) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate phase: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.state.phases {
		if existing.ID == item.ID {
			return fmt.Errorf("phase %s already exists", item.ID)
		}
	}
	r.store.state.phases = append(r.store.state.phases, item)
	return nil
}

func (r *PhaseRepository) UpdateWindows(_ context.Context, phaseID string, startsAt, endsAt, picksLockAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, existing := range r.store.state.phases {
		if existing.ID == phaseID {
			existing.StartsAt = startsAt
			existing.EndsAt = endsAt
			existing.PicksLockAt = picksLockAt
			r.store.state.phases[i] = existing
			return nil
		}
	}
	return fmt.Errorf("phase %s does not exist", phaseID)
}
