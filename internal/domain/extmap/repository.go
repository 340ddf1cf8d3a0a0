package extmap

import "context"

// Repository describes external mapping persistence needs from use cases.
// Create reports ErrDuplicate when the (data source, entity type, external id)
// pair already exists. Metadata updates overwrite the stored payload whole;
// provider metadata may legitimately change shape between runs.
type Repository interface {
	FindByExternalID(ctx context.Context, dataSourceID int64, entityType EntityType, externalID string) (Mapping, bool, error)
	FindByLocalID(ctx context.Context, dataSourceID int64, entityType EntityType, localID string) (Mapping, bool, error)
	Create(ctx context.Context, item Mapping) error
	UpdateMetadata(ctx context.Context, dataSourceID int64, entityType EntityType, externalID string, metadata map[string]any) error
}
