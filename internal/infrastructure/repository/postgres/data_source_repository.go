package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pickemhq/schedule-sync/internal/domain/datasource"
	qb "github.com/pickemhq/schedule-sync/internal/platform/querybuilder"
)

type DataSourceRepository struct {
	ext sqlx.ExtContext
}

func NewDataSourceRepository(ext sqlx.ExtContext) *DataSourceRepository {
	return &DataSourceRepository{ext: ext}
}

func (r *DataSourceRepository) GetByName(ctx context.Context, name string) (datasource.DataSource, bool, error) {
	query, args, err := qb.Select("*").From("data_sources").
		Where(qb.Eq("name", name)).
		ToSQL()
	if err != nil {
		return datasource.DataSource{}, false, fmt.Errorf("build get data source by name query: %w", err)
	}

	var row dataSourceTableModel
	if err := sqlx.GetContext(ctx, r.ext, &row, query, args...); err != nil {
		if isNotFound(err) {
			return datasource.DataSource{}, false, nil
		}
		return datasource.DataSource{}, false, fmt.Errorf("get data source by name: %w", err)
	}

	return datasource.DataSource{
		ID:   row.ID,
		Name: row.Name,
	}, true, nil
}
