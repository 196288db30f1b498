package source

import (
	"context"
	"testing"

	"dialysisdash/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFile(t *testing.T) {
	cfg := &config.Config{Data: config.DataConfig{Source: config.SourceFile, File: "data/facilities.xlsx"}}

	src, closeFn, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.Contains(t, src.Describe(), "data/facilities.xlsx")
}

func TestOpenS3(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	cfg := &config.Config{
		Data: config.DataConfig{Source: config.SourceS3, File: "s3://bucket/facilities.csv"},
		S3:   config.S3Config{Region: "us-east-1", Endpoint: "http://localhost:9000", PathStyle: true},
	}

	src, closeFn, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, "s3://bucket/facilities.csv", src.Describe())
}

func TestOpenS3BadURL(t *testing.T) {
	cfg := &config.Config{Data: config.DataConfig{Source: config.SourceS3, File: "s3://bucket"}}
	_, _, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}
