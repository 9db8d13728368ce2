// Package upload provides unit tests for single-part S3 uploads.
package upload

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/transfertypes"
)

func TestUploader_PutObject(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		config      *transfertypes.UploadConfig
		mockFunc    func(*testutil.MockS3Client)
		wantErr     bool
		errContains string
	}{
		{
			name:    "successful small upload",
			content: "Hello, World!",
			config: &transfertypes.UploadConfig{
				ContentType: "text/plain",
			},
			mockFunc: func(m *testutil.MockS3Client) {
				m.PutObjectFunc = func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					assert.Equal(t, "test-bucket", aws.ToString(input.Bucket))
					assert.Equal(t, "test-key", aws.ToString(input.Key))
					assert.Equal(t, "text/plain", aws.ToString(input.ContentType))
					assert.Equal(t, int64(13), aws.ToInt64(input.ContentLength))

					body, err := io.ReadAll(input.Body)
					require.NoError(t, err)
					assert.Equal(t, "Hello, World!", string(body))

					return &s3.PutObjectOutput{
						ETag: aws.String("test-etag"),
					}, nil
				}
			},
		},
		{
			name:    "upload with metadata",
			content: "test content",
			config: &transfertypes.UploadConfig{
				ContentType: "text/plain",
				Metadata: map[string]string{
					"author":  "test",
					"version": "1.0",
				},
			},
			mockFunc: func(m *testutil.MockS3Client) {
				m.PutObjectFunc = func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					assert.Equal(t, "test", input.Metadata["author"])
					assert.Equal(t, "1.0", input.Metadata["version"])
					return &s3.PutObjectOutput{
						ETag: aws.String("test-etag"),
					}, nil
				}
			},
		},
		{
			name:    "upload with SSE-S3",
			content: "encrypted content",
			config: &transfertypes.UploadConfig{
				ContentType: "text/plain",
				SSE: &transfertypes.SSEConfig{
					Type: transfertypes.SSES3,
				},
			},
			mockFunc: func(m *testutil.MockS3Client) {
				m.PutObjectFunc = func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					assert.Equal(t, awstypes.ServerSideEncryptionAes256, input.ServerSideEncryption)
					return &s3.PutObjectOutput{
						ETag: aws.String("test-etag"),
					}, nil
				}
			},
		},
		{
			name:    "upload with SSE-KMS",
			content: "encrypted content",
			config: &transfertypes.UploadConfig{
				ContentType: "text/plain",
				SSE: &transfertypes.SSEConfig{
					Type:     transfertypes.SSEKMS,
					KMSKeyID: "key-1234",
				},
			},
			mockFunc: func(m *testutil.MockS3Client) {
				m.PutObjectFunc = func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					assert.Equal(t, awstypes.ServerSideEncryptionAwsKms, input.ServerSideEncryption)
					assert.Equal(t, "key-1234", aws.ToString(input.SSEKMSKeyId))
					return &s3.PutObjectOutput{
						ETag: aws.String("test-etag"),
					}, nil
				}
			},
		},
		{
			name:    "upload with storage class",
			content: "archived content",
			config: &transfertypes.UploadConfig{
				ContentType:  "text/plain",
				StorageClass: transfertypes.StorageClassStandardIA,
			},
			mockFunc: func(m *testutil.MockS3Client) {
				m.PutObjectFunc = func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					assert.Equal(t, awstypes.StorageClassStandardIa, input.StorageClass)
					return &s3.PutObjectOutput{
						ETag: aws.String("test-etag"),
					}, nil
				}
			},
		},
		{
			name:    "s3 error is wrapped",
			content: "doomed content",
			config: &transfertypes.UploadConfig{
				ContentType: "text/plain",
			},
			mockFunc: func(m *testutil.MockS3Client) {
				m.PutObjectFunc = func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					return nil, stderrors.New("bucket is on fire")
				}
			},
			wantErr:     true,
			errContains: "bucket is on fire",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &testutil.MockS3Client{}
			tt.mockFunc(mock)

			uploader := New(mock)
			result, err := uploader.PutObject(
				context.Background(),
				"test-bucket",
				"test-key",
				strings.NewReader(tt.content),
				int64(len(tt.content)),
				tt.config,
				time.Now(),
			)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "test-key", result.Key)
			assert.Equal(t, int64(len(tt.content)), result.Size)
			assert.Equal(t, "test-etag", result.ETag)
		})
	}
}

func TestUploader_PutObject_ProgressTracker(t *testing.T) {
	tracker := &testutil.MockProgressTracker{}
	mock := &testutil.MockS3Client{}

	uploader := New(mock)
	_, err := uploader.PutObject(
		context.Background(),
		"test-bucket",
		"test-key",
		strings.NewReader("content"),
		7,
		&transfertypes.UploadConfig{
			ContentType:     "text/plain",
			ProgressTracker: tracker,
		},
		time.Now(),
	)

	require.NoError(t, err)
	assert.True(t, tracker.UpdateCalled)
	assert.True(t, tracker.CompleteCalled)

	transferred, total := tracker.Snapshot()
	assert.Equal(t, int64(7), transferred)
	assert.Equal(t, int64(7), total)
}
