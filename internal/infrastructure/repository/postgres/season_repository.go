package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pickemhq/schedule-sync/internal/domain/season"
	qb "github.com/pickemhq/schedule-sync/internal/platform/querybuilder"
)

type SeasonRepository struct {
	ext sqlx.ExtContext
}

func NewSeasonRepository(ext sqlx.ExtContext) *SeasonRepository {
	return &SeasonRepository{ext: ext}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := sqlx.SelectContext(ctx, r.ext, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapSeasonRow(row))
	}

	return out, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(
			qb.Eq("public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get season by id query: %w", err)
	}

	var row seasonTableModel
	if err := sqlx.GetContext(ctx, r.ext, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get season by id: %w", err)
	}

	return mapSeasonRow(row), true, nil
}

func (r *SeasonRepository) LatestByLeague(ctx context.Context, leagueID string) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("year DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build latest season by league query: %w", err)
	}

	var row seasonTableModel
	if err := sqlx.GetContext(ctx, r.ext, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("latest season by league: %w", err)
	}

	return mapSeasonRow(row), true, nil
}

func (r *SeasonRepository) Create(ctx context.Context, item season.Season) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate season: %w", err)
	}

	model := seasonInsertModel{
		PublicID:  item.ID,
		LeagueID:  item.LeagueID,
		Name:      item.Name,
		Year:      item.Year,
		StartDate: item.StartDate.UTC(),
		EndDate:   item.EndDate.UTC(),
	}

	query, args, err := qb.InsertModel("seasons", model, "")
	if err != nil {
		return fmt.Errorf("build insert season query: %w", err)
	}
	if _, err := r.ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert season: %w", err)
	}

	return nil
}

func (r *SeasonRepository) Update(ctx context.Context, item season.Season) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate season: %w", err)
	}

	query, args, err := qb.Update("seasons").
		Set("name", item.Name).
		Set("year", item.Year).
		Set("start_date", item.StartDate.UTC()).
		Set("end_date", item.EndDate.UTC()).
		SetExpr("updated_at", "now()").
		Where(
			qb.Eq("public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update season query: %w", err)
	}

	result, err := r.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update season: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update season %s: %w", item.ID, sql.ErrNoRows)
	}

	return nil
}

func mapSeasonRow(row seasonTableModel) season.Season {
	return season.Season{
		ID:        row.PublicID,
		LeagueID:  row.LeagueID,
		Name:      row.Name,
		Year:      row.Year,
		StartDate: row.StartDate.UTC(),
		EndDate:   row.EndDate.UTC(),
	}
}
