package memory

import (
	"context"

	"github.com/pickemhq/schedule-sync/internal/domain/datasource"
)

type DataSourceRepository struct {
	store *Store
}

func (r *DataSourceRepository) GetByName(_ context.Context, name string) (datasource.DataSource, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.state.dataSources {
		if item.Name == name {
			return item, true, nil
		}
	}
	return datasource.DataSource{}, false, nil
}
