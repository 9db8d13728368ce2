// Package multipart handles multipart upload operations with concurrent part
// uploads and resumable progress bookkeeping.
package multipart

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/internal/pool"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/transfertypes"
)

const (
	// DefaultPartSize is used when no part size is configured (8MB)
	DefaultPartSize = 8 * 1024 * 1024

	// MinPartSize is the S3 lower bound for non-final parts (5MB)
	MinPartSize = 5 * 1024 * 1024

	// MaxParts is the S3 limit on the number of parts per upload
	MaxParts = 10000

	// DefaultConcurrency is the number of concurrent part uploads when unset
	DefaultConcurrency = 5
)

// Uploader runs resumable multipart uploads.
type Uploader struct {
	s3Client s3api.S3API
}

// NewUploader creates a new multipart uploader.
func NewUploader(s3Client s3api.S3API) *Uploader {
	return &Uploader{
		s3Client: s3Client,
	}
}

// Request describes one multipart upload run.
type Request struct {
	// Bucket and Key identify the destination object
	Bucket string
	Key    string

	// Source provides random access to the file content
	Source io.ReaderAt

	// Size is the total source size in bytes
	Size int64

	// Config carries content type, metadata, part size and concurrency
	Config *transfertypes.UploadConfig

	// State is the shared bookkeeping; a resumed transfer passes a seeded
	// state whose recorded parts are skipped
	State *State

	// Notify, if non-nil, is called after each acknowledged part
	Notify func(transfertypes.ProgressSnapshot)
}

// Upload runs the multipart upload described by req. Parts already recorded
// in req.State are not re-uploaded. When ctx is canceled the upload stops
// without aborting the remote multipart upload, so a pause can snapshot and
// later resume it; any other failure aborts the remote upload before
// returning.
func (u *Uploader) Upload(
	ctx context.Context,
	req *Request,
	startTime time.Time,
) (*transfertypes.UploadResult, error) {
	partSize := u.resolvePartSize(req)
	numParts := calculateParts(req.Size, partSize)

	uploadID := req.State.UploadID()
	if uploadID == "" {
		id, err := u.createMultipartUpload(ctx, req.Bucket, req.Key, req.Config)
		if err != nil {
			return nil, err
		}
		uploadID = id
		// Registered before any part is dispatched so a pause snapshot
		// that sees parts always sees the upload id too.
		req.State.RegisterUpload(uploadID, partSize, numParts)
	}

	if err := u.uploadParts(ctx, req, uploadID, partSize, numParts); err != nil {
		if ctx.Err() != nil {
			// Stopped by pause or caller cancellation. The remote upload
			// stays alive so the recorded progress remains resumable.
			return nil, fmt.Errorf("multipart upload stopped: %w", ctx.Err())
		}
		u.abortMultipartUpload(context.WithoutCancel(ctx), req.Bucket, req.Key, uploadID)
		return nil, err
	}

	return u.completeMultipartUpload(ctx, req, uploadID, startTime)
}

// resolvePartSize picks the part size for this run. A seeded state wins so a
// resumed transfer reuses the recorded geometry; otherwise the configured
// size is clamped to S3 bounds.
func (u *Uploader) resolvePartSize(req *Request) int64 {
	if seeded := req.State.PartSize(); seeded > 0 {
		return seeded
	}

	partSize := req.Config.PartSize
	if partSize <= 0 {
		partSize = DefaultPartSize
	}
	if partSize < MinPartSize {
		partSize = MinPartSize
	}
	// Grow the part size if the object would otherwise exceed the part limit
	if minForLimit := (req.Size + MaxParts - 1) / MaxParts; partSize < minForLimit {
		partSize = minForLimit
	}
	return partSize
}

// calculateParts returns the number of parts for the given size and part size.
func calculateParts(size, partSize int64) int32 {
	if size == 0 {
		return 1
	}
	return int32((size + partSize - 1) / partSize)
}

// createMultipartUpload registers a new multipart upload with the store.
func (u *Uploader) createMultipartUpload(
	ctx context.Context,
	bucket, key string,
	config *transfertypes.UploadConfig,
) (string, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(config.ContentType),
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

	output, err := u.s3Client.CreateMultipartUpload(ctx, input)
	if err != nil {
		return "", errors.NewObjectError("createMultipartUpload", bucket, key, err)
	}

	return aws.ToString(output.UploadId), nil
}

// uploadParts uploads every part not already recorded in req.State.
func (u *Uploader) uploadParts(
	ctx context.Context,
	req *Request,
	uploadID string,
	partSize int64,
	numParts int32,
) error {
	var pending []int32
	for partNum := int32(1); partNum <= numParts; partNum++ {
		if !req.State.PartRecorded(partNum) {
			pending = append(pending, partNum)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	concurrency := req.Config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	bufPool := pool.NewPartBufferPool(partSize)
	sem := make(chan struct{}, concurrency)
	results := make(chan error, len(pending))

	var wg sync.WaitGroup
	for _, partNum := range pending {
		wg.Add(1)
		go func(partNum int32) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results <- ctx.Err()
				return
			}
			defer func() { <-sem }()

			part, err := u.uploadPart(ctx, req, bufPool, uploadID, partSize, partNum)
			if err != nil {
				results <- err
				return
			}

			// Recorded only after the store acknowledged the part, under
			// the state mutex, so pause snapshots never double-count.
			req.State.RecordPart(part)
			if req.Notify != nil {
				req.Notify(req.State.Snapshot())
			}
			results <- nil
		}(partNum)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for err := range results {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// uploadPart uploads a single part and returns its completion record.
func (u *Uploader) uploadPart(
	ctx context.Context,
	req *Request,
	bufPool *pool.PartBufferPool,
	uploadID string,
	partSize int64,
	partNumber int32,
) (transfertypes.CompletedPart, error) {
	offset := int64(partNumber-1) * partSize
	size := partSize
	if offset+size > req.Size {
		size = req.Size - offset
	}

	buf := bufPool.Get()
	defer bufPool.Put(buf)

	if _, err := req.Source.ReadAt(buf[:size], offset); err != nil {
		return transfertypes.CompletedPart{}, errors.
			NewObjectError("uploadPart", req.Bucket, req.Key, err).
			WithMessage(fmt.Sprintf("read part %d", partNumber))
	}

	input := &s3.UploadPartInput{
		Bucket:     aws.String(req.Bucket),
		Key:        aws.String(req.Key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(partNumber),
		Body:       bytes.NewReader(buf[:size]),
	}

	output, err := u.s3Client.UploadPart(ctx, input)
	if err != nil {
		return transfertypes.CompletedPart{}, errors.NewObjectError("uploadPart", req.Bucket, req.Key, err)
	}

	return transfertypes.CompletedPart{
		PartNumber: partNumber,
		ETag:       aws.ToString(output.ETag),
		Size:       size,
	}, nil
}

// completeMultipartUpload finishes the upload from the recorded parts.
func (u *Uploader) completeMultipartUpload(
	ctx context.Context,
	req *Request,
	uploadID string,
	startTime time.Time,
) (*transfertypes.UploadResult, error) {
	_, _, _, recorded := req.State.Details()
	parts := make([]awstypes.CompletedPart, len(recorded))
	for i, p := range recorded {
		parts[i] = awstypes.CompletedPart{
			ETag:       aws.String(p.ETag),
			PartNumber: aws.Int32(p.PartNumber),
		}
	}

	input := &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(req.Bucket),
		Key:      aws.String(req.Key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &awstypes.CompletedMultipartUpload{
			Parts: parts,
		},
	}

	output, err := u.s3Client.CompleteMultipartUpload(ctx, input)
	if err != nil {
		u.abortMultipartUpload(context.WithoutCancel(ctx), req.Bucket, req.Key, uploadID)
		return nil, errors.NewObjectError("completeMultipartUpload", req.Bucket, req.Key, err)
	}

	return &transfertypes.UploadResult{
		Key:       req.Key,
		Size:      req.Size,
		ETag:      aws.ToString(output.ETag),
		VersionID: aws.ToString(output.VersionId),
		Duration:  time.Since(startTime),
	}, nil
}

// Abort abandons a multipart upload. A missing upload id is a normal
// outcome and is not reported as an error.
func (u *Uploader) Abort(ctx context.Context, bucket, key, uploadID string) error {
	input := &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	}
	if _, err := u.s3Client.AbortMultipartUpload(ctx, input); err != nil {
		if IsNoSuchUpload(err) {
			return nil
		}
		return errors.NewObjectError("abortMultipartUpload", bucket, key, err)
	}
	return nil
}

// abortMultipartUpload cleans up a failed multipart upload.
func (u *Uploader) abortMultipartUpload(ctx context.Context, bucket, key, uploadID string) {
	// Ignore errors during cleanup
	_ = u.Abort(ctx, bucket, key, uploadID)
}
