package extmap

import (
	"errors"
	"fmt"
	"strings"
)

// EntityType names the kind of local record a mapping points at.
type EntityType string

const (
	EntityLeague EntityType = "league"
	EntitySeason EntityType = "season"
	EntityTeam   EntityType = "team"
	EntityPhase  EntityType = "phase"
)

// ErrDuplicate reports a mapping create that lost to a concurrent insert on the
// (data source, entity type, external id) uniqueness constraint. Callers treat
// it as "someone else already created this mapping" and fall back to update.
var ErrDuplicate = errors.New("external mapping already exists")

// Mapping links one provider's identifier for a record to the local id, plus an
// opaque metadata payload of provider-specific fields not worth normalizing.
// Per data source and entity type, external id and local id are each unique, so
// the mapping is a bijection between the two identifier spaces.
type Mapping struct {
	DataSourceID int64
	EntityType   EntityType
	ExternalID   string
	LocalID      string
	Metadata     map[string]any
}

func (m Mapping) Validate() error {
	if m.DataSourceID <= 0 {
		return fmt.Errorf("mapping data source id is required")
	}
	if m.EntityType == "" {
		return fmt.Errorf("mapping entity type is required")
	}
	if m.ExternalID == "" {
		return fmt.Errorf("mapping external id is required")
	}
	if m.LocalID == "" {
		return fmt.Errorf("mapping local id is required")
	}

	return nil
}

// MetaString reads a trimmed string value out of the metadata payload.
func (m Mapping) MetaString(key string) string {
	if len(m.Metadata) == 0 {
		return ""
	}
	value, ok := m.Metadata[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
