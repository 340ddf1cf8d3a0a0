package phase

import (
	"context"
	"time"
)

// Repository describes phase persistence needs from use cases.
type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Phase, error)
	Create(ctx context.Context, item Phase) error
	UpdateWindows(ctx context.Context, phaseID string, startsAt, endsAt, picksLockAt time.Time) error
}
