package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pickemhq/schedule-sync/internal/domain/league"
	qb "github.com/pickemhq/schedule-sync/internal/platform/querybuilder"
)

type LeagueRepository struct {
	ext sqlx.ExtContext
}

func NewLeagueRepository(ext sqlx.ExtContext) *LeagueRepository {
	return &LeagueRepository{ext: ext}
}

func (r *LeagueRepository) ListActive(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("is_active", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := sqlx.SelectContext(ctx, r.ext, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapLeagueRow(row))
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := sqlx.GetContext(ctx, r.ext, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return mapLeagueRow(row), true, nil
}

func mapLeagueRow(row leagueTableModel) league.League {
	return league.League{
		ID:       row.PublicID,
		Name:     row.Name,
		Slug:     row.Slug,
		Sport:    row.Sport,
		Timezone: row.Timezone,
		IsActive: row.IsActive,
	}
}
