package multipart

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"sync"
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

const testPartSize = MinPartSize

// testConfig returns an upload config sized for a deterministic part layout.
func testConfig() *transfertypes.UploadConfig {
	return &transfertypes.UploadConfig{
		ContentType: "application/octet-stream",
		PartSize:    testPartSize,
		Concurrency: 3,
	}
}

func TestUploader_Upload_MultiplePartsComplete(t *testing.T) {
	size := int64(testPartSize*2 + 1024)
	data := testutil.RandomBytes(size, 1)

	var mu sync.Mutex
	uploadedParts := make(map[int32]int)

	mock := &testutil.MockS3Client{
		CreateMultipartUploadFunc: func(ctx context.Context, input *s3.CreateMultipartUploadInput, opts ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
			assert.Equal(t, "test-bucket", aws.ToString(input.Bucket))
			assert.Equal(t, "test-key", aws.ToString(input.Key))
			return &s3.CreateMultipartUploadOutput{UploadId: aws.String("upload-1")}, nil
		},
		UploadPartFunc: func(ctx context.Context, input *s3.UploadPartInput, opts ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
			body, err := io.ReadAll(input.Body)
			require.NoError(t, err)

			partNum := aws.ToInt32(input.PartNumber)
			offset := int64(partNum-1) * testPartSize
			assert.True(t, bytes.Equal(data[offset:offset+int64(len(body))], body), "part %d content mismatch", partNum)

			mu.Lock()
			uploadedParts[partNum] = len(body)
			mu.Unlock()

			return &s3.UploadPartOutput{ETag: aws.String("etag")}, nil
		},
		CompleteMultipartUploadFunc: func(ctx context.Context, input *s3.CompleteMultipartUploadInput, opts ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
			require.NotNil(t, input.MultipartUpload)
			require.Len(t, input.MultipartUpload.Parts, 3)
			// Parts must be listed in ascending order
			for i, p := range input.MultipartUpload.Parts {
				assert.Equal(t, int32(i+1), aws.ToInt32(p.PartNumber))
			}
			return &s3.CompleteMultipartUploadOutput{ETag: aws.String("final-etag")}, nil
		},
	}

	state := NewState(size)
	uploader := NewUploader(mock)

	result, err := uploader.Upload(context.Background(), &Request{
		Bucket: "test-bucket",
		Key:    "test-key",
		Source: bytes.NewReader(data),
		Size:   size,
		Config: testConfig(),
		State:  state,
	}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, "final-etag", result.ETag)
	assert.Equal(t, size, result.Size)

	assert.Len(t, uploadedParts, 3)
	assert.Equal(t, 1024, uploadedParts[3])

	snapshot := state.Snapshot()
	assert.Equal(t, size, snapshot.TransferredBytes)
}

func TestUploader_Upload_ResumeSkipsRecordedParts(t *testing.T) {
	size := int64(testPartSize * 3)
	data := testutil.RandomBytes(size, 2)

	var mu sync.Mutex
	var uploaded []int32
	createCalled := false

	mock := &testutil.MockS3Client{
		CreateMultipartUploadFunc: func(ctx context.Context, input *s3.CreateMultipartUploadInput, opts ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
			createCalled = true
			return &s3.CreateMultipartUploadOutput{UploadId: aws.String("unexpected")}, nil
		},
		UploadPartFunc: func(ctx context.Context, input *s3.UploadPartInput, opts ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
			assert.Equal(t, "upload-1", aws.ToString(input.UploadId))
			mu.Lock()
			uploaded = append(uploaded, aws.ToInt32(input.PartNumber))
			mu.Unlock()
			return &s3.UploadPartOutput{ETag: aws.String("etag")}, nil
		},
		CompleteMultipartUploadFunc: func(ctx context.Context, input *s3.CompleteMultipartUploadInput, opts ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
			require.Len(t, input.MultipartUpload.Parts, 3)
			return &s3.CompleteMultipartUploadOutput{ETag: aws.String("final-etag")}, nil
		},
	}

	state := NewResumedState(size, "upload-1", testPartSize, 3, []transfertypes.CompletedPart{
		{PartNumber: 1, ETag: "e1", Size: testPartSize},
	})
	uploader := NewUploader(mock)

	_, err := uploader.Upload(context.Background(), &Request{
		Bucket: "test-bucket",
		Key:    "test-key",
		Source: bytes.NewReader(data),
		Size:   size,
		Config: testConfig(),
		State:  state,
	}, time.Now())

	require.NoError(t, err)
	assert.False(t, createCalled, "resumed upload must not register a new multipart upload")
	assert.ElementsMatch(t, []int32{2, 3}, uploaded)
}

func TestUploader_Upload_CanceledKeepsRemoteUpload(t *testing.T) {
	size := int64(testPartSize * 2)
	data := testutil.RandomBytes(size, 3)

	abortCalled := false
	mock := &testutil.MockS3Client{
		CreateMultipartUploadFunc: func(ctx context.Context, input *s3.CreateMultipartUploadInput, opts ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
			return &s3.CreateMultipartUploadOutput{UploadId: aws.String("upload-1")}, nil
		},
		UploadPartFunc: func(ctx context.Context, input *s3.UploadPartInput, opts ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
		AbortMultipartUploadFunc: func(ctx context.Context, input *s3.AbortMultipartUploadInput, opts ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
			abortCalled = true
			return &s3.AbortMultipartUploadOutput{}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	state := NewState(size)
	uploader := NewUploader(mock)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := uploader.Upload(ctx, &Request{
		Bucket: "test-bucket",
		Key:    "test-key",
		Source: bytes.NewReader(data),
		Size:   size,
		Config: testConfig(),
		State:  state,
	}, time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, abortCalled, "cancellation must keep the remote upload alive")
	assert.Equal(t, "upload-1", state.UploadID(), "upload id stays recorded for the pause snapshot")
}

func TestUploader_Upload_FailureAborts(t *testing.T) {
	size := int64(testPartSize)
	data := testutil.RandomBytes(size, 4)

	boom := stderrors.New("part store exploded")
	abortCalled := false

	mock := &testutil.MockS3Client{
		CreateMultipartUploadFunc: func(ctx context.Context, input *s3.CreateMultipartUploadInput, opts ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
			return &s3.CreateMultipartUploadOutput{UploadId: aws.String("upload-1")}, nil
		},
		UploadPartFunc: func(ctx context.Context, input *s3.UploadPartInput, opts ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
			return nil, boom
		},
		AbortMultipartUploadFunc: func(ctx context.Context, input *s3.AbortMultipartUploadInput, opts ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
			abortCalled = true
			assert.Equal(t, "upload-1", aws.ToString(input.UploadId))
			return &s3.AbortMultipartUploadOutput{}, nil
		},
	}

	uploader := NewUploader(mock)
	_, err := uploader.Upload(context.Background(), &Request{
		Bucket: "test-bucket",
		Key:    "test-key",
		Source: bytes.NewReader(data),
		Size:   size,
		Config: testConfig(),
		State:  NewState(size),
	}, time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, abortCalled, "genuine failure must abort the remote upload")
}

func TestUploader_Upload_NotifiesProgress(t *testing.T) {
	size := int64(testPartSize * 2)
	data := testutil.RandomBytes(size, 5)

	mock := &testutil.MockS3Client{
		CreateMultipartUploadFunc: func(ctx context.Context, input *s3.CreateMultipartUploadInput, opts ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
			return &s3.CreateMultipartUploadOutput{UploadId: aws.String("upload-1")}, nil
		},
	}

	var mu sync.Mutex
	var snapshots []transfertypes.ProgressSnapshot

	state := NewState(size)
	uploader := NewUploader(mock)
	_, err := uploader.Upload(context.Background(), &Request{
		Bucket: "test-bucket",
		Key:    "test-key",
		Source: bytes.NewReader(data),
		Size:   size,
		Config: testConfig(),
		State:  state,
		Notify: func(s transfertypes.ProgressSnapshot) {
			mu.Lock()
			snapshots = append(snapshots, s)
			mu.Unlock()
		},
	}, time.Now())

	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	for _, s := range snapshots {
		assert.Equal(t, size, s.TotalBytes)
	}
}

func TestResolvePartSize(t *testing.T) {
	uploader := NewUploader(&testutil.MockS3Client{})

	tests := []struct {
		name     string
		size     int64
		partSize int64
		seeded   int64
		want     int64
	}{
		{name: "configured size respected", size: 100 << 20, partSize: 16 << 20, want: 16 << 20},
		{name: "zero falls back to default", size: 100 << 20, want: DefaultPartSize},
		{name: "clamped to minimum", size: 100 << 20, partSize: 1 << 20, want: MinPartSize},
		{
			name:     "grown to stay under part limit",
			size:     int64(MaxParts) * MinPartSize * 2,
			partSize: MinPartSize,
			want:     MinPartSize * 2,
		},
		{name: "seeded geometry wins", size: 100 << 20, partSize: 16 << 20, seeded: 8 << 20, want: 8 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewState(tt.size)
			if tt.seeded > 0 {
				state.RegisterUpload("upload-1", tt.seeded, 1)
			}
			got := uploader.resolvePartSize(&Request{
				Size:   tt.size,
				Config: &transfertypes.UploadConfig{PartSize: tt.partSize},
				State:  state,
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateParts(t *testing.T) {
	assert.Equal(t, int32(1), calculateParts(0, testPartSize))
	assert.Equal(t, int32(1), calculateParts(1, testPartSize))
	assert.Equal(t, int32(1), calculateParts(testPartSize, testPartSize))
	assert.Equal(t, int32(2), calculateParts(testPartSize+1, testPartSize))
}

func TestUploader_Abort_ToleratesMissingUpload(t *testing.T) {
	mock := &testutil.MockS3Client{
		AbortMultipartUploadFunc: func(ctx context.Context, input *s3.AbortMultipartUploadInput, opts ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
			return nil, &awstypes.NoSuchUpload{}
		},
	}

	uploader := NewUploader(mock)
	err := uploader.Abort(context.Background(), "test-bucket", "test-key", "gone")
	assert.NoError(t, err)
}
