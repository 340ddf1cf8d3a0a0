package postgres

import "time"

type phaseTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	SeasonID    string    `db:"season_public_id"`
	Label       string    `db:"label"`
	Sequence    int       `db:"sequence"`
	StartsAt    time.Time `db:"starts_at"`
	EndsAt      time.Time `db:"ends_at"`
	PicksLockAt time.Time `db:"picks_lock_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type phaseInsertModel struct {
	PublicID    string    `db:"public_id"`
	SeasonID    string    `db:"season_public_id"`
	Label       string    `db:"label"`
	Sequence    int       `db:"sequence"`
	StartsAt    time.Time `db:"starts_at"`
	EndsAt      time.Time `db:"ends_at"`
	PicksLockAt time.Time `db:"picks_lock_at"`
}
