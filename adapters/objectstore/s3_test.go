package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	gets    []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := *in.Bucket + "/" + *in.Key
	f.gets = append(f.gets, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := ParseS3URL("s3://public-health/dialysis/2019/facilities.csv")
	require.NoError(t, err)
	assert.Equal(t, "public-health", bucket)
	assert.Equal(t, "dialysis/2019/facilities.csv", key)

	for _, raw := range []string{"https://bucket/key.csv", "s3://bucket", "s3:///key.csv", "::"} {
		_, _, err := ParseS3URL(raw)
		assert.Error(t, err, raw)
	}
}

func TestReadTable(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"public-health/facilities.csv": "Name,SRR\nAlpha,1.1\n",
	}}
	src := NewWithClient(client, "public-health", "facilities.csv")

	table, err := src.ReadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "SRR"}, table.Headers)
	assert.Equal(t, [][]string{{"Alpha", "1.1"}}, table.Rows)
	assert.Equal(t, []string{"public-health/facilities.csv"}, client.gets)
	assert.Equal(t, "s3://public-health/facilities.csv", src.Describe())
}

func TestReadTableMissingObject(t *testing.T) {
	src := NewWithClient(&fakeS3{}, "public-health", "gone.csv")

	_, err := src.ReadTable(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://public-health/gone.csv")
}
