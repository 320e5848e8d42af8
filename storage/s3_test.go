package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	input   *s3.GetObjectInput
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = params
	body, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Opener(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"docs/reports/q1.pdf": "%PDF-1.7"}}
	opener := NewS3Opener(client)

	t.Run("existing object", func(t *testing.T) {
		rc, err := opener.Open(context.Background(), "s3://docs/reports/q1.pdf")
		require.NoError(t, err)
		defer rc.Close()

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.7", string(body))
		assert.Equal(t, "docs", aws.ToString(client.input.Bucket))
		assert.Equal(t, "reports/q1.pdf", aws.ToString(client.input.Key))
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := opener.Open(context.Background(), "s3://docs/nope.pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get object s3://docs/nope.pdf from S3")
	})
}

func TestParseS3Location(t *testing.T) {
	tests := []struct {
		name       string
		location   string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{name: "simple", location: "s3://bucket/file.docx", wantBucket: "bucket", wantKey: "file.docx"},
		{name: "nested key", location: "s3://bucket/a/b/c.xlsx", wantBucket: "bucket", wantKey: "a/b/c.xlsx"},
		{name: "missing key", location: "s3://bucket/", wantErr: true},
		{name: "missing bucket", location: "s3:///key", wantErr: true},
		{name: "wrong scheme", location: "https://bucket/key", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, err := ParseS3Location(tt.location)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}
