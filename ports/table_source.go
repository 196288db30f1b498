package ports

import (
	"context"

	"dialysisdash/domain/tabular"
)

// TableSource reads the pre-joined facility table once at startup
type TableSource interface {
	ReadTable(ctx context.Context) (*tabular.Table, error)
	// Describe names the source for logs
	Describe() string
}
