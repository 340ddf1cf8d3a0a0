package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pickemhq/schedule-sync/internal/usecase"
)

// TxStore runs usecase work inside a single database transaction. The Stores
// handed to fn are bound to the transaction, so a returned error rolls back
// every write fn made.
type TxStore struct {
	db *sqlx.DB
}

func NewTxStore(db *sqlx.DB) *TxStore {
	return &TxStore{db: db}
}

func (s *TxStore) InTx(ctx context.Context, fn func(ctx context.Context, st usecase.Stores) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, NewStores(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

// NewStores binds every repository to ext, which may be a live transaction or
// the root database handle.
func NewStores(ext sqlx.ExtContext) usecase.Stores {
	return usecase.Stores{
		DataSources: NewDataSourceRepository(ext),
		Leagues:     NewLeagueRepository(ext),
		Seasons:     NewSeasonRepository(ext),
		Teams:       NewTeamRepository(ext),
		Phases:      NewPhaseRepository(ext),
		Mappings:    NewMappingRepository(ext),
	}
}
