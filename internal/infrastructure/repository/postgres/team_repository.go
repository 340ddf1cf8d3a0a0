package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pickemhq/schedule-sync/internal/domain/team"
	qb "github.com/pickemhq/schedule-sync/internal/platform/querybuilder"
)

type TeamRepository struct {
	ext sqlx.ExtContext
}

func NewTeamRepository(ext sqlx.ExtContext) *TeamRepository {
	return &TeamRepository{ext: ext}
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by league query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, r.ext, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by league: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamRow(row))
	}

	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by id query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, r.ext, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate team: %w", err)
	}

	model := teamInsertModel{
		PublicID:     item.ID,
		LeagueID:     item.LeagueID,
		Name:         item.Name,
		Location:     item.Location,
		Abbreviation: item.Abbreviation,
		LogoURL:      item.LogoURL,
		AltLogoURL:   item.AltLogoURL,
	}

	query, args, err := qb.InsertModel("teams", model, "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := r.ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team: %w", err)
	}

	return nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate team: %w", err)
	}

	query, args, err := qb.Update("teams").
		Set("name", item.Name).
		Set("location", item.Location).
		Set("abbreviation", item.Abbreviation).
		Set("logo_url", item.LogoURL).
		Set("alt_logo_url", item.AltLogoURL).
		SetExpr("updated_at", "now()").
		Where(
			qb.Eq("public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}

	result, err := r.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update team %s: %w", item.ID, sql.ErrNoRows)
	}

	return nil
}

func mapTeamRow(row teamTableModel) team.Team {
	return team.Team{
		ID:           row.PublicID,
		LeagueID:     row.LeagueID,
		Name:         row.Name,
		Location:     row.Location,
		Abbreviation: row.Abbreviation,
		LogoURL:      nullStringToString(row.LogoURL),
		AltLogoURL:   nullStringToString(row.AltLogoURL),
	}
}
