// Package source picks the facility table source named by the configuration.
package source

import (
	"context"

	"dialysisdash/adapters/excel"
	"dialysisdash/adapters/objectstore"
	"dialysisdash/adapters/postgres"
	"dialysisdash/internal/config"
	"dialysisdash/ports"
)

// Open returns the configured table source. The returned func releases any
// connection and is safe to call once the dataset is loaded.
func Open(ctx context.Context, cfg *config.Config) (ports.TableSource, func(), error) {
	noop := func() {}
	switch cfg.Data.Source {
	case config.SourceS3:
		src, err := objectstore.New(ctx, cfg.Data.File, objectstore.Config{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil
	case config.SourcePostgres:
		db, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, noop, err
		}
		src, err := postgres.NewFacilityTableSource(db, cfg.Data.Table)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		return src, func() { db.Close() }, nil
	default:
		return excel.NewDataReader(cfg.Data.File), noop, nil
	}
}
