package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	LeagueID     string         `db:"league_public_id"`
	Name         string         `db:"name"`
	Location     string         `db:"location"`
	Abbreviation string         `db:"abbreviation"`
	LogoURL      sql.NullString `db:"logo_url"`
	AltLogoURL   sql.NullString `db:"alt_logo_url"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID     string `db:"public_id"`
	LeagueID     string `db:"league_public_id"`
	Name         string `db:"name"`
	Location     string `db:"location"`
	Abbreviation string `db:"abbreviation"`
	LogoURL      string `db:"logo_url"`
	AltLogoURL   string `db:"alt_logo_url"`
}
