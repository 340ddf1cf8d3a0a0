package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pickemhq/schedule-sync/internal/domain/phase"
	qb "github.com/pickemhq/schedule-sync/internal/platform/querybuilder"
)

type PhaseRepository struct {
	ext sqlx.ExtContext
}

func NewPhaseRepository(ext sqlx.ExtContext) *PhaseRepository {
	return &PhaseRepository{ext: ext}
}

func (r *PhaseRepository) ListBySeason(ctx context.Context, seasonID string) ([]phase.Phase, error) {
	query, args, err := qb.Select("*").From("phases").
		Where(qb.Eq("season_public_id", seasonID)).
		OrderBy("sequence").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select phases by season query: %w", err)
	}

	var rows []phaseTableModel
	if err := sqlx.SelectContext(ctx, r.ext, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select phases by season: %w", err)
	}

	out := make([]phase.Phase, 0, len(rows))
	for _, row := range rows {
		out = append(out, phase.Phase{
			ID:          row.PublicID,
			SeasonID:    row.SeasonID,
			Label:       row.Label,
			Sequence:    row.Sequence,
			StartsAt:    row.StartsAt.UTC(),
			EndsAt:      row.EndsAt.UTC(),
			PicksLockAt: row.PicksLockAt.UTC(),
		})
	}

	return out, nil
}

func (r *PhaseRepository) Create(ctx context.Context, item phase.Phase) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate phase: %w", err)
	}

	model := phaseInsertModel{
		PublicID:    item.ID,
		SeasonID:    item.SeasonID,
		Label:       item.Label,
		Sequence:    item.Sequence,
		StartsAt:    item.StartsAt.UTC(),
		EndsAt:      item.EndsAt.UTC(),
		PicksLockAt: item.PicksLockAt.UTC(),
	}

	query, args, err := qb.InsertModel("phases", model, "")
	if err != nil {
		return fmt.Errorf("build insert phase query: %w", err)
	}
	if _, err := r.ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert phase: %w", err)
	}

	return nil
}

func (r *PhaseRepository) UpdateWindows(ctx context.Context, phaseID string, startsAt, endsAt, picksLockAt time.Time) error {
	query, args, err := qb.Update("phases").
		Set("starts_at", startsAt.UTC()).
		Set("ends_at", endsAt.UTC()).
		Set("picks_lock_at", picksLockAt.UTC()).
		SetExpr("updated_at", "now()").
		Where(qb.Eq("public_id", phaseID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update phase windows query: %w", err)
	}

	result, err := r.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update phase windows: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update phase windows %s: %w", phaseID, sql.ErrNoRows)
	}

	return nil
}
