// Package upload handles single-request S3 object uploads.
//
// Transfers below the multipart threshold go through this path; larger
// transfers use the multipart engine instead.
package upload

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/transfertypes"
)

// Uploader handles single-part S3 upload operations.
type Uploader struct {
	s3Client s3api.S3API
}

// New creates a new Uploader instance.
func New(s3Client s3api.S3API) *Uploader {
	return &Uploader{
		s3Client: s3Client,
	}
}

// PutObject uploads the reader's content as one PutObject request.
// The size must match the number of bytes the reader yields.
func (u *Uploader) PutObject(
	ctx context.Context,
	bucket, key string,
	reader io.Reader,
	size int64,
	config *transfertypes.UploadConfig,
	startTime time.Time,
) (*transfertypes.UploadResult, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentType:   aws.String(config.ContentType),
		ContentLength: aws.Int64(size),
	}

	if config.StorageClass != "" {
		input.StorageClass = awstypes.StorageClass(config.StorageClass)
	}

	if len(config.Metadata) > 0 {
		input.Metadata = config.Metadata
	}

	if config.SSE != nil {
		switch config.SSE.Type {
		case transfertypes.SSES3:
			input.ServerSideEncryption = awstypes.ServerSideEncryptionAes256
		case transfertypes.SSEKMS:
			input.ServerSideEncryption = awstypes.ServerSideEncryptionAwsKms
			if config.SSE.KMSKeyID != "" {
				input.SSEKMSKeyId = aws.String(config.SSE.KMSKeyID)
			}
		}
	}

	output, err := u.s3Client.PutObject(ctx, input)
	if err != nil {
		return nil, errors.NewObjectError("putObject", bucket, key, err)
	}

	result := &transfertypes.UploadResult{
		Key:       key,
		Size:      size,
		ETag:      aws.ToString(output.ETag),
		VersionID: aws.ToString(output.VersionId),
		Duration:  time.Since(startTime),
	}

	if config.ProgressTracker != nil {
		config.ProgressTracker.Update(size, size)
		config.ProgressTracker.Complete()
	}

	return result, nil
}
