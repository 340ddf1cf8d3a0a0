package memory

import (
	"context"
	"fmt"

	"github.com/pickemhq/schedule-sync/internal/domain/extmap"
)

type MappingRepository struct {
	store *Store
}

func (r *MappingRepository) FindByExternalID(_ context.Context, dataSourceID int64, entityType extmap.EntityType, externalID string) (extmap.Mapping, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.state.mappings {
		if item.DataSourceID == dataSourceID && item.EntityType == entityType && item.ExternalID == externalID {
			return cloneMapping(item), true, nil
		}
	}
	return extmap.Mapping{}, false, nil
}

func (r *MappingRepository) FindByLocalID(_ context.Context, dataSourceID int64, entityType extmap.EntityType, localID string) (extmap.Mapping, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.state.mappings {
		if item.DataSourceID == dataSourceID && item.EntityType == entityType && item.LocalID == localID {
			return cloneMapping(item), true, nil
		}
	}
	return extmap.Mapping{}, false, nil
}

func (r *MappingRepository) Create(_ context.Context, item extmap.Mapping) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate mapping: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.state.mappings {
		if existing.DataSourceID != item.DataSourceID || existing.EntityType != item.EntityType {
			continue
		}
		if existing.ExternalID == item.ExternalID || existing.LocalID == item.LocalID {
			return fmt.Errorf("insert mapping %s/%s: %w", item.EntityType, item.ExternalID, extmap.ErrDuplicate)
		}
	}
	r.store.state.mappings = append(r.store.state.mappings, cloneMapping(item))
	return nil
}

func (r *MappingRepository) UpdateMetadata(_ context.Context, dataSourceID int64, entityType extmap.EntityType, externalID string, metadata map[string]any) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, existing := range r.store.state.mappings {
		if existing.DataSourceID == dataSourceID && existing.EntityType == entityType && existing.ExternalID == externalID {
			existing.Metadata = metadata
			r.store.state.mappings[i] = cloneMapping(existing)
			return nil
		}
	}
	return fmt.Errorf("mapping %s/%s does not exist", entityType, externalID)
}
