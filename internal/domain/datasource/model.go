package datasource

import "fmt"

// DataSource is an external provider of schedule data, e.g. "ESPN".
// Rows are seeded once and never deleted; lookups are by name.
type DataSource struct {
	ID   int64
	Name string
}

func (d DataSource) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("data source name is required")
	}

	return nil
}
