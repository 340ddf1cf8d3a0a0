package postgres

import "time"

type mappingTableModel struct {
	ID           int64     `db:"id"`
	DataSourceID int64     `db:"data_source_id"`
	EntityType   string    `db:"entity_type"`
	ExternalID   string    `db:"external_id"`
	LocalID      string    `db:"local_id"`
	Metadata     []byte    `db:"metadata"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type mappingInsertModel struct {
	DataSourceID int64  `db:"data_source_id"`
	EntityType   string `db:"entity_type"`
	ExternalID   string `db:"external_id"`
	LocalID      string `db:"local_id"`
	Metadata     []byte `db:"metadata"`
}
