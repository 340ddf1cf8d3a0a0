package datasource

import "context"

// Repository describes data source persistence needs from use cases.
type Repository interface {
	GetByName(ctx context.Context, name string) (DataSource, bool, error)
}
