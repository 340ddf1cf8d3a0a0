package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/pickemhq/schedule-sync/internal/domain/extmap"
	qb "github.com/pickemhq/schedule-sync/internal/platform/querybuilder"
)

type MappingRepository struct {
	ext sqlx.ExtContext
}

func NewMappingRepository(ext sqlx.ExtContext) *MappingRepository {
	return &MappingRepository{ext: ext}
}

func (r *MappingRepository) FindByExternalID(ctx context.Context, dataSourceID int64, entityType extmap.EntityType, externalID string) (extmap.Mapping, bool, error) {
	return r.findBy(ctx, qb.Eq("external_id", externalID), dataSourceID, entityType)
}

func (r *MappingRepository) FindByLocalID(ctx context.Context, dataSourceID int64, entityType extmap.EntityType, localID string) (extmap.Mapping, bool, error) {
	return r.findBy(ctx, qb.Eq("local_id", localID), dataSourceID, entityType)
}

func (r *MappingRepository) findBy(ctx context.Context, idCondition qb.Condition, dataSourceID int64, entityType extmap.EntityType) (extmap.Mapping, bool, error) {
	query, args, err := qb.Select("*").From("external_mappings").
		Where(
			qb.Eq("data_source_id", dataSourceID),
			qb.Eq("entity_type", string(entityType)),
			idCondition,
		).
		ToSQL()
	if err != nil {
		return extmap.Mapping{}, false, fmt.Errorf("build find mapping query: %w", err)
	}

	var row mappingTableModel
	if err := sqlx.GetContext(ctx, r.ext, &row, query, args...); err != nil {
		if isNotFound(err) {
			return extmap.Mapping{}, false, nil
		}
		return extmap.Mapping{}, false, fmt.Errorf("find mapping: %w", err)
	}

	mapped, err := mapMappingRow(row)
	if err != nil {
		return extmap.Mapping{}, false, err
	}
	return mapped, true, nil
}

func (r *MappingRepository) Create(ctx context.Context, item extmap.Mapping) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate mapping: %w", err)
	}

	metadata, err := encodeMappingMetadata(item.Metadata)
	if err != nil {
		return err
	}

	model := mappingInsertModel{
		DataSourceID: item.DataSourceID,
		EntityType:   string(item.EntityType),
		ExternalID:   item.ExternalID,
		LocalID:      item.LocalID,
		Metadata:     metadata,
	}

	query, args, err := qb.InsertModel("external_mappings", model, "")
	if err != nil {
		return fmt.Errorf("build insert mapping query: %w", err)
	}
	if _, err := r.ext.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert mapping %s/%s: %w", item.EntityType, item.ExternalID, extmap.ErrDuplicate)
		}
		return fmt.Errorf("insert mapping: %w", err)
	}

	return nil
}

func (r *MappingRepository) UpdateMetadata(ctx context.Context, dataSourceID int64, entityType extmap.EntityType, externalID string, metadata map[string]any) error {
	encoded, err := encodeMappingMetadata(metadata)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("external_mappings").
		Set("metadata", encoded).
		SetExpr("updated_at", "now()").
		Where(
			qb.Eq("data_source_id", dataSourceID),
			qb.Eq("entity_type", string(entityType)),
			qb.Eq("external_id", externalID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update mapping metadata query: %w", err)
	}

	result, err := r.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update mapping metadata: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update mapping metadata %s/%s: %w", entityType, externalID, sql.ErrNoRows)
	}

	return nil
}

func encodeMappingMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	encoded, err := sonic.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode mapping metadata: %w", err)
	}
	return encoded, nil
}

func mapMappingRow(row mappingTableModel) (extmap.Mapping, error) {
	metadata := map[string]any{}
	if len(row.Metadata) > 0 {
		if err := sonic.Unmarshal(row.Metadata, &metadata); err != nil {
			return extmap.Mapping{}, fmt.Errorf("decode mapping metadata: %w", err)
		}
	}

	return extmap.Mapping{
		DataSourceID: row.DataSourceID,
		EntityType:   extmap.EntityType(row.EntityType),
		ExternalID:   row.ExternalID,
		LocalID:      row.LocalID,
		Metadata:     metadata,
	}, nil
}
