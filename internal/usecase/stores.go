package usecase

import (
	"context"

	"github.com/pickemhq/schedule-sync/internal/domain/datasource"
	"github.com/pickemhq/schedule-sync/internal/domain/extmap"
	"github.com/pickemhq/schedule-sync/internal/domain/league"
	"github.com/pickemhq/schedule-sync/internal/domain/phase"
	"github.com/pickemhq/schedule-sync/internal/domain/season"
	"github.com/pickemhq/schedule-sync/internal/domain/team"
)

// Stores bundles every repository a sync invocation touches, all bound to the
// same transactional context. Orchestration code receives a Stores value from
// TxRunner.InTx and never reaches for a connection of its own.
type Stores struct {
	DataSources datasource.Repository
	Leagues     league.Repository
	Seasons     season.Repository
	Teams       team.Repository
	Phases      phase.Repository
	Mappings    extmap.Repository
}

// TxRunner opens one atomic unit of work: every store operation inside the
// callback commits together or not at all. An error from the callback rolls
// the whole unit back and is returned unchanged.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, st Stores) error) error
}
