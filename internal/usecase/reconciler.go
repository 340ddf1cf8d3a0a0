package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pickemhq/schedule-sync/internal/domain/extmap"
	"github.com/pickemhq/schedule-sync/internal/platform/logging"
)

// reconcileHooks parameterizes the generic fetch-compare-upsert pass over one
// entity kind. The lookup/create/update skeleton is shared; only the field
// mapping differs per kind, injected through these hooks.
type reconcileHooks[T any] struct {
	entityType extmap.EntityType
	externalID func(rec T) string
	metadata   func(rec T) map[string]any
	validate   func(rec T) error
	create     func(ctx context.Context, st Stores, rec T) (localID string, err error)
	update     func(ctx context.Context, st Stores, localID string, rec T) error
}

type ReconcileStats struct {
	Created int
	Updated int
	Skipped int
}

// reconcileRecords runs the two-branch found/not-found algorithm for every
// fetched record:
//
//   - an existing mapping routes the record to the update hook, then overwrites
//     the mapping metadata whole;
//   - a missing mapping routes it to the create hook and records a new mapping.
//
// Records that fail validation are skipped and logged; the pass continues.
// A create that loses the race on the mapping uniqueness constraint re-reads
// the winner's mapping and retries as an update. Store failures propagate and
// abort the surrounding transaction.
func reconcileRecords[T any](
	ctx context.Context,
	st Stores,
	dataSourceID int64,
	records []T,
	hooks reconcileHooks[T],
	logger *logging.Logger,
) (ReconcileStats, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var stats ReconcileStats
	for _, rec := range records {
		externalID := strings.TrimSpace(hooks.externalID(rec))
		if externalID == "" {
			stats.Skipped++
			logger.WarnContext(ctx, "skip record without external id",
				"entity_type", string(hooks.entityType),
			)
			continue
		}
		if hooks.validate != nil {
			if err := hooks.validate(rec); err != nil {
				stats.Skipped++
				logger.WarnContext(ctx, "skip invalid record",
					"entity_type", string(hooks.entityType),
					"external_id", externalID,
					"error", fmt.Errorf("%w: %v", ErrInvalidInput, err),
				)
				continue
			}
		}

		mapping, found, err := st.Mappings.FindByExternalID(ctx, dataSourceID, hooks.entityType, externalID)
		if err != nil {
			return stats, fmt.Errorf("find mapping %s external_id=%s: %w", hooks.entityType, externalID, err)
		}

		if found {
			if err := applyUpdate(ctx, st, dataSourceID, externalID, mapping.LocalID, rec, hooks); err != nil {
				return stats, err
			}
			stats.Updated++
			continue
		}

		localID, err := hooks.create(ctx, st, rec)
		if err != nil {
			return stats, fmt.Errorf("create %s external_id=%s: %w", hooks.entityType, externalID, err)
		}

		err = st.Mappings.Create(ctx, extmap.Mapping{
			DataSourceID: dataSourceID,
			EntityType:   hooks.entityType,
			ExternalID:   externalID,
			LocalID:      localID,
			Metadata:     hooks.metadata(rec),
		})
		if err == nil {
			stats.Created++
			continue
		}
		if !errors.Is(err, extmap.ErrDuplicate) {
			return stats, fmt.Errorf("create mapping %s external_id=%s: %w", hooks.entityType, externalID, err)
		}

		// A concurrent invocation won the insert. Re-read its mapping and
		// fall back to the update branch instead of failing the run.
		logger.WarnContext(ctx, "mapping insert lost concurrent race, retrying as update",
			"entity_type", string(hooks.entityType),
			"external_id", externalID,
			"error", fmt.Errorf("%w: %v", ErrConflict, err),
		)
		winner, found, err := st.Mappings.FindByExternalID(ctx, dataSourceID, hooks.entityType, externalID)
		if err != nil {
			return stats, fmt.Errorf("re-read mapping %s external_id=%s after conflict: %w", hooks.entityType, externalID, err)
		}
		if !found {
			return stats, fmt.Errorf("%w: mapping %s external_id=%s vanished after duplicate insert", ErrConflict, hooks.entityType, externalID)
		}
		if err := applyUpdate(ctx, st, dataSourceID, externalID, winner.LocalID, rec, hooks); err != nil {
			return stats, err
		}
		stats.Updated++
	}

	return stats, nil
}

func applyUpdate[T any](
	ctx context.Context,
	st Stores,
	dataSourceID int64,
	externalID string,
	localID string,
	rec T,
	hooks reconcileHooks[T],
) error {
	if err := hooks.update(ctx, st, localID, rec); err != nil {
		return fmt.Errorf("update %s local_id=%s: %w", hooks.entityType, localID, err)
	}
	if err := st.Mappings.UpdateMetadata(ctx, dataSourceID, hooks.entityType, externalID, hooks.metadata(rec)); err != nil {
		return fmt.Errorf("update mapping metadata %s external_id=%s: %w", hooks.entityType, externalID, err)
	}
	return nil
}
