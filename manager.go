// Package s3transfer provides the transfer manager and its core operations.
package s3transfer

import (
	"bytes"
	"context"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/internal/operations/upload"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/internal/transfer/multipart"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/internal/waiter"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/transfertypes"
)

const (
	// DefaultContentType is the default content type used when content type detection fails
	DefaultContentType = "application/octet-stream"
)

// UploadFile starts uploading a local file to S3 and returns a handle for
// the in-flight transfer. The transfer begins immediately; the returned
// FileUpload exposes completion, progress, and cooperative pause.
//
// Files at or above the configured multipart threshold upload as concurrent
// multipart transfers; smaller files use a single PutObject request.
//
// Example:
//
//	fileUpload, err := tm.UploadFile(ctx, "my-bucket", "backups/db.snap", "/var/backups/db.snap")
//	if err != nil {
//	    return err
//	}
//	token := fileUpload.Pause()
//	// later, possibly on another manager instance:
//	resumed, err := tm2.ResumeUploadFile(ctx, token)
func (m *Manager) UploadFile(
	ctx context.Context,
	bucket, key, filePath string,
	opts ...transfertypes.UploadOption,
) (*FileUpload, error) {
	if err := validateDestination("uploadFile", bucket, key); err != nil {
		return nil, err
	}
	if filePath == "" {
		return nil, errors.NewObjectError("uploadFile", bucket, key, errors.ErrInvalidInput).
			WithMessage("file path cannot be empty")
	}

	info, err := m.filesystem().Stat(filePath)
	if err != nil {
		return nil, errors.NewObjectError("uploadFile", bucket, key, err)
	}
	if info.IsDir() {
		return nil, errors.NewObjectError("uploadFile", bucket, key, errors.ErrInvalidInput).
			WithMessage("file path points to a directory, not a file")
	}

	source := sourceInfo{
		path:    filePath,
		size:    info.Size(),
		modTime: info.ModTime(),
	}
	config := m.resolveUploadConfig(filePath, opts)
	state := multipart.NewState(source.size)

	return m.startUpload(ctx, bucket, key, source, state, config), nil
}

// ResumeUploadFile continues a transfer from a resumable token, on this
// manager instance regardless of which instance produced the token.
//
// An empty token restarts the transfer from the beginning. A populated
// token resumes only if the recorded multipart upload still exists remotely
// and the local source file is unchanged; otherwise the stale upload is
// aborted (best effort) and the whole file is re-uploaded under a new
// transfer. A changed source file is not an error.
//
// The remote existence check is bounded by the configured resume-check
// timeout; exceeding it fails the resume with ErrWaitTimeout.
func (m *Manager) ResumeUploadFile(
	ctx context.Context,
	token transfertypes.ResumableFileUpload,
	opts ...transfertypes.UploadOption,
) (*FileUpload, error) {
	if err := validateDestination("resumeUploadFile", token.Bucket, token.Key); err != nil {
		return nil, err
	}
	if token.SourcePath == "" {
		return nil, errors.NewObjectError("resumeUploadFile", token.Bucket, token.Key, errors.ErrInvalidInput).
			WithMessage("token has no source path")
	}

	info, err := m.filesystem().Stat(token.SourcePath)
	if err != nil {
		return nil, errors.NewObjectError("resumeUploadFile", token.Bucket, token.Key, err)
	}

	source := sourceInfo{
		path:    token.SourcePath,
		size:    info.Size(),
		modTime: info.ModTime(),
	}
	config := m.resolveUploadConfig(token.SourcePath, opts)

	if token.IsEmpty() {
		return m.startUpload(ctx, token.Bucket, token.Key, source, multipart.NewState(source.size), config), nil
	}

	changed := info.Size() != token.SourceSize || !info.ModTime().Equal(token.SourceModTime)
	if changed {
		// The recorded parts describe a file that no longer exists.
		// Abort the stale upload so it does not leak storage, then
		// restart from byte zero.
		uploader := multipart.NewUploader(m.s3Client)
		_ = uploader.Abort(ctx, token.Bucket, token.Key, token.MultipartUploadID)
		return m.startUpload(ctx, token.Bucket, token.Key, source, multipart.NewState(source.size), config), nil
	}

	exists, err := m.checkUploadExists(ctx, token)
	if err != nil {
		return nil, err
	}
	if !exists {
		// Upload id gone (expired or aborted elsewhere); nothing to abort.
		return m.startUpload(ctx, token.Bucket, token.Key, source, multipart.NewState(source.size), config), nil
	}

	state := multipart.NewResumedState(
		source.size,
		token.MultipartUploadID,
		token.PartSize,
		token.TotalParts,
		token.TransferredParts,
	)
	return m.startUpload(ctx, token.Bucket, token.Key, source, state, config), nil
}

// startUpload creates the handle and launches the transfer goroutine.
func (m *Manager) startUpload(
	ctx context.Context,
	bucket, key string,
	source sourceInfo,
	state *multipart.State,
	config *transfertypes.UploadConfig,
) *FileUpload {
	runCtx, cancel := context.WithCancel(ctx)
	handle := newFileUpload(bucket, key, source, state, config.Listeners, cancel)
	go m.runUpload(runCtx, handle, config)
	return handle
}

// runUpload executes one transfer to completion, pause, or failure.
func (m *Manager) runUpload(ctx context.Context, f *FileUpload, config *transfertypes.UploadConfig) {
	f.start()
	startTime := time.Now()

	file, err := m.filesystem().Open(f.source.path)
	if err != nil {
		f.finish(nil, errors.NewObjectError("upload", f.bucket, f.key, err))
		return
	}
	defer file.Close()

	threshold := m.getClientConfig().MultipartThreshold

	// A resumed multipart transfer stays multipart regardless of threshold.
	if f.source.size >= threshold || f.state.UploadID() != "" {
		notify := func(snapshot transfertypes.ProgressSnapshot) {
			f.notifyProgress(snapshot)
			if config.ProgressTracker != nil {
				config.ProgressTracker.Update(snapshot.TransferredBytes, snapshot.TotalBytes)
			}
		}

		uploader := multipart.NewUploader(m.s3Client)
		result, err := uploader.Upload(ctx, &multipart.Request{
			Bucket: f.bucket,
			Key:    f.key,
			Source: file,
			Size:   f.source.size,
			Config: config,
			State:  f.state,
			Notify: notify,
		}, startTime)
		if err == nil && config.ProgressTracker != nil {
			config.ProgressTracker.Complete()
		}
		if err != nil && ctx.Err() == nil && config.ProgressTracker != nil {
			config.ProgressTracker.Error(err)
		}
		f.finish(result, err)
		return
	}

	uploader := upload.New(m.s3Client)
	result, err := uploader.PutObject(ctx, f.bucket, f.key, file, f.source.size, config, startTime)
	if err == nil {
		f.state.AddBytes(f.source.size)
		f.notifyProgress(f.state.Snapshot())
	}
	f.finish(result, err)
}

// Upload uploads data from an io.Reader to S3 and blocks until it finishes.
//
// Reader-based uploads are not pausable: without a stable source identity
// there is nothing a resumable token could validate against. Use UploadFile
// for pause/resume support.
func (m *Manager) Upload(
	ctx context.Context,
	bucket, key string,
	reader io.Reader,
	opts ...transfertypes.UploadOption,
) (*transfertypes.UploadResult, error) {
	if err := validateDestination("upload", bucket, key); err != nil {
		return nil, err
	}
	if reader == nil {
		return nil, errors.NewObjectError("upload", bucket, key, errors.ErrInvalidInput).
			WithMessage("reader cannot be nil")
	}

	config := m.resolveUploadConfig(key, opts)
	startTime := time.Now()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewObjectError("upload", bucket, key, err)
	}
	size := int64(len(data))

	if size >= m.getClientConfig().MultipartThreshold {
		uploader := multipart.NewUploader(m.s3Client)
		result, err := uploader.Upload(ctx, &multipart.Request{
			Bucket: bucket,
			Key:    key,
			Source: bytes.NewReader(data),
			Size:   size,
			Config: config,
			State:  multipart.NewState(size),
		}, startTime)
		if err != nil {
			return nil, errors.NewObjectError("upload", bucket, key, err)
		}
		if config.ProgressTracker != nil {
			config.ProgressTracker.Update(size, size)
			config.ProgressTracker.Complete()
		}
		return result, nil
	}

	uploader := upload.New(m.s3Client)
	result, err := uploader.PutObject(ctx, bucket, key, bytes.NewReader(data), size, config, startTime)
	if err != nil {
		return nil, errors.NewObjectError("upload", bucket, key, err)
	}
	return result, nil
}

// UploadDirectory uploads every regular file under dir to the given bucket,
// prefixing object keys with prefix. Files transfer concurrently; per-file
// failures are collected in the result rather than aborting the batch.
// Hidden files (dot-prefixed) are skipped unless WithIncludeHidden is set.
func (m *Manager) UploadDirectory(
	ctx context.Context,
	bucket, prefix, dir string,
	opts ...transfertypes.DirectoryOption,
) (*transfertypes.DirectoryUploadResult, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, errors.NewError("uploadDirectory", err).WithBucket(bucket)
	}
	if dir == "" {
		return nil, errors.NewError("uploadDirectory", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("directory path cannot be empty")
	}

	fsys := m.filesystem()
	info, err := fsys.Stat(dir)
	if err != nil {
		return nil, errors.NewError("uploadDirectory", err).WithBucket(bucket)
	}
	if !info.IsDir() {
		return nil, errors.NewError("uploadDirectory", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("path is not a directory")
	}

	dirCfg := &transfertypes.DirectoryOptionConfig{
		Parallelism: m.getClientConfig().Concurrency,
	}
	for _, opt := range opts {
		opt(dirCfg)
	}

	var files []string
	walkErr := fsys.Walk(dir, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		if !dirCfg.IncludeHidden && isHidden(dir, p) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if walkErr != nil {
		return nil, errors.NewError("uploadDirectory", walkErr).WithBucket(bucket)
	}

	var uploadOpts []transfertypes.UploadOption
	for _, l := range dirCfg.Listeners {
		uploadOpts = append(uploadOpts, WithTransferListener(l))
	}
	if dirCfg.ProgressTracker != nil {
		uploadOpts = append(uploadOpts, WithProgress(dirCfg.ProgressTracker))
	}

	startTime := time.Now()
	result := &transfertypes.DirectoryUploadResult{}
	var mu sync.Mutex

	sem := make(chan struct{}, dirCfg.Parallelism)
	var wg sync.WaitGroup
	for _, filePath := range files {
		wg.Add(1)
		go func(filePath string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			key := objectKeyFor(prefix, dir, filePath)
			uploaded, uploadErr := m.uploadFileSync(ctx, bucket, key, filePath, uploadOpts)

			mu.Lock()
			defer mu.Unlock()
			if uploadErr != nil {
				result.Failed = append(result.Failed, transfertypes.DirectoryUploadError{
					Path: filePath,
					Key:  key,
					Err:  uploadErr,
				})
				return
			}
			result.FilesUploaded++
			result.BytesTransferred += uploaded
		}(filePath)
	}
	wg.Wait()

	result.Duration = time.Since(startTime)
	return result, nil
}

// uploadFileSync uploads one file and waits for it, reporting bytes moved.
func (m *Manager) uploadFileSync(
	ctx context.Context,
	bucket, key, filePath string,
	opts []transfertypes.UploadOption,
) (int64, error) {
	handle, err := m.UploadFile(ctx, bucket, key, filePath, opts...)
	if err != nil {
		return 0, err
	}
	result, err := handle.Wait(ctx)
	if err != nil {
		return 0, err
	}
	return result.Size, nil
}

// WaitUntilMultipartUploadExists polls the bucket until a multipart upload
// for the given key is visible, bounded by the resume-check timeout. Useful
// for observing that a transfer registered its multipart upload remotely
// before pausing it.
func (m *Manager) WaitUntilMultipartUploadExists(ctx context.Context, bucket, key string) error {
	cfg := m.getClientConfig()
	w := waiter.Waiter{
		Interval: cfg.ResumeCheckInterval,
		Timeout:  cfg.ResumeCheckTimeout,
	}
	return w.Wait(ctx, func(ctx context.Context) (bool, error) {
		output, err := m.s3Client.ListMultipartUploads(ctx, &s3.ListMultipartUploadsInput{
			Bucket: aws.String(bucket),
		})
		if err != nil {
			return false, nil
		}
		for _, u := range output.Uploads {
			if aws.ToString(u.Key) == key {
				return true, nil
			}
		}
		return false, nil
	})
}

// checkUploadExists resolves whether the token's multipart upload still
// exists, polling through transient failures up to the configured bound.
func (m *Manager) checkUploadExists(
	ctx context.Context,
	token transfertypes.ResumableFileUpload,
) (bool, error) {
	cfg := m.getClientConfig()
	uploader := multipart.NewUploader(m.s3Client)

	var exists bool
	w := waiter.Waiter{
		Interval:    cfg.ResumeCheckInterval,
		MaxInterval: time.Second,
		Timeout:     cfg.ResumeCheckTimeout,
	}
	err := w.Wait(ctx, func(ctx context.Context) (bool, error) {
		ok, err := uploader.CheckUpload(ctx, token.Bucket, token.Key, token.MultipartUploadID)
		if err != nil {
			// Transient; keep polling until the bound elapses.
			return false, nil
		}
		exists = ok
		return true, nil
	})
	if err != nil {
		return false, errors.NewObjectError("resumeUploadFile", token.Bucket, token.Key, err).
			WithMessage("existence check for multipart upload did not resolve")
	}
	return exists, nil
}

// resolveUploadConfig applies upload options over manager defaults.
func (m *Manager) resolveUploadConfig(
	pathHint string,
	opts []transfertypes.UploadOption,
) *transfertypes.UploadConfig {
	clientCfg := m.getClientConfig()

	optCfg := &transfertypes.UploadOptionConfig{
		ContentType:  DefaultContentType,
		StorageClass: transfertypes.StorageClassStandard,
		Metadata:     make(map[string]string),
		PartSize:     clientCfg.PartSize,
		Concurrency:  clientCfg.Concurrency,
	}
	for _, opt := range opts {
		opt(optCfg)
	}

	if optCfg.ContentType == DefaultContentType {
		optCfg.ContentType = m.detectContentType(pathHint)
	}

	return &transfertypes.UploadConfig{
		ContentType:     optCfg.ContentType,
		Metadata:        optCfg.Metadata,
		StorageClass:    optCfg.StorageClass,
		SSE:             optCfg.SSE,
		ProgressTracker: optCfg.ProgressTracker,
		Listeners:       optCfg.Listeners,
		PartSize:        optCfg.PartSize,
		Concurrency:     optCfg.Concurrency,
	}
}

// detectContentType determines the content type for an upload.
func (m *Manager) detectContentType(pathHint string) string {
	// If the path points to an existing local file, prefer sniffing its content.
	info, err := m.filesystem().Stat(pathHint)
	if err != nil || info.IsDir() {
		return detectContentTypeFromExtension(pathHint)
	}

	file, err := m.filesystem().Open(pathHint)
	if err != nil {
		return detectContentTypeFromExtension(pathHint)
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	if n > 0 {
		if mt := mimetype.Detect(buf[:n]); mt != nil {
			return mt.String()
		}
	}

	return detectContentTypeFromExtension(pathHint)
}

// detectContentTypeFromExtension falls back to extension-based detection.
func detectContentTypeFromExtension(pathHint string) string {
	ext := strings.ToLower(filepath.Ext(pathHint))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return DefaultContentType
}

// validateDestination checks the bucket and key of an operation.
func validateDestination(op, bucket, key string) error {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return errors.NewError(op, err).WithBucket(bucket).WithKey(key)
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return errors.NewError(op, err).WithBucket(bucket).WithKey(key)
	}
	return nil
}

// objectKeyFor derives the destination key for a file in a directory upload.
func objectKeyFor(prefix, dir, filePath string) string {
	rel, err := filepath.Rel(dir, filePath)
	if err != nil {
		rel = filepath.Base(filePath)
	}
	key := filepath.ToSlash(rel)
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}

// isHidden reports whether any path element below dir starts with a dot.
func isHidden(dir, filePath string) bool {
	rel, err := filepath.Rel(dir, filePath)
	if err != nil {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}
