package s3transfer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/internal/transfer/multipart"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/transfertypes"
)

// sourceInfo is the local file signature recorded when a transfer starts.
// Resume compares it against the current file to detect mutation.
type sourceInfo struct {
	path    string
	size    int64
	modTime time.Time
}

// FileUpload represents one in-flight file transfer.
//
// A handle is created by UploadFile or ResumeUploadFile with the transfer
// already running. It exposes completion (Wait, Done), progress observation
// (Progress, Status) and cooperative pause (Pause). A paused handle is
// terminal; resuming its token produces a new handle.
type FileUpload struct {
	// ID uniquely identifies this transfer handle
	ID uuid.UUID

	bucket string
	key    string
	source sourceInfo

	state     *multipart.State
	listeners []transfertypes.TransferListener

	cancel context.CancelFunc
	done   chan struct{}

	status atomic.Int32
	paused atomic.Bool

	// result and err are written once, before done is closed
	result *transfertypes.UploadResult
	err    error

	pauseOnce sync.Once
	token     transfertypes.ResumableFileUpload
}

// newFileUpload creates a handle for a transfer about to start.
func newFileUpload(
	bucket, key string,
	source sourceInfo,
	state *multipart.State,
	listeners []transfertypes.TransferListener,
	cancel context.CancelFunc,
) *FileUpload {
	f := &FileUpload{
		ID:        uuid.New(),
		bucket:    bucket,
		key:       key,
		source:    source,
		state:     state,
		listeners: listeners,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	f.status.Store(int32(transfertypes.TransferNotStarted))
	return f
}

// Bucket returns the destination bucket.
func (f *FileUpload) Bucket() string { return f.bucket }

// Key returns the destination object key.
func (f *FileUpload) Key() string { return f.key }

// Status returns the current lifecycle state of the transfer.
func (f *FileUpload) Status() transfertypes.TransferStatus {
	return transfertypes.TransferStatus(f.status.Load())
}

// Progress returns a point-in-time snapshot of transfer progress.
func (f *FileUpload) Progress() transfertypes.ProgressSnapshot {
	return f.state.Snapshot()
}

// Done returns a channel closed when the transfer reaches a terminal state.
func (f *FileUpload) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the transfer reaches a terminal state or ctx is
// canceled. For a completed transfer it returns the upload result; for a
// paused transfer it returns ErrTransferPaused.
func (f *FileUpload) Wait(ctx context.Context) (*transfertypes.UploadResult, error) {
	select {
	case <-ctx.Done():
		return nil, errors.NewObjectError("wait", f.bucket, f.key, ctx.Err())
	case <-f.done:
		return f.result, f.err
	}
}

// Pause stops the transfer cooperatively and returns a resumable token.
//
// Part dispatch stops, in-flight part requests are canceled (abandoned parts
// are never recorded), and the snapshot is taken only after the transfer
// goroutine has stopped, so the token is a consistent cut of acknowledged
// parts. The token is the empty shape when no multipart upload was
// registered, including when the transfer already completed or failed.
//
// Pause is idempotent: later calls return the same token. Ownership of the
// token transfers to the caller; the manager keeps no reference to it.
func (f *FileUpload) Pause() transfertypes.ResumableFileUpload {
	f.pauseOnce.Do(func() {
		f.paused.Store(true)
		f.cancel()
		<-f.done
		f.token = f.buildToken()
	})
	return f.token
}

// buildToken snapshots the transfer into a portable token. Called only
// after the transfer goroutine has stopped.
func (f *FileUpload) buildToken() transfertypes.ResumableFileUpload {
	token := transfertypes.ResumableFileUpload{
		Bucket:        f.bucket,
		Key:           f.key,
		SourcePath:    f.source.path,
		SourceSize:    f.source.size,
		SourceModTime: f.source.modTime,
	}

	// A finished transfer has nothing to resume; keep the empty shape so
	// resuming it restarts from the beginning.
	if f.Status() != transfertypes.TransferPaused {
		return token
	}

	uploadID, partSize, totalParts, parts := f.state.Details()
	if uploadID == "" {
		return token
	}

	token.MultipartUploadID = uploadID
	token.PartSize = partSize
	token.TotalParts = totalParts
	token.TransferredParts = parts
	return token
}

// start marks the transfer as running and notifies listeners.
func (f *FileUpload) start() {
	f.status.Store(int32(transfertypes.TransferInProgress))
	snapshot := f.state.Snapshot()
	for _, l := range f.listeners {
		l.TransferInitiated(f.bucket, f.key, snapshot)
	}
}

// notifyProgress forwards a progress snapshot to registered listeners.
func (f *FileUpload) notifyProgress(snapshot transfertypes.ProgressSnapshot) {
	for _, l := range f.listeners {
		l.BytesTransferred(f.bucket, f.key, snapshot)
	}
}

// finish records the terminal outcome and releases waiters.
func (f *FileUpload) finish(result *transfertypes.UploadResult, err error) {
	switch {
	case err == nil:
		f.result = result
		f.status.Store(int32(transfertypes.TransferCompleted))
		snapshot := f.state.Snapshot()
		for _, l := range f.listeners {
			l.TransferComplete(f.bucket, f.key, snapshot)
		}
	case f.paused.Load():
		f.err = errors.NewObjectError("upload", f.bucket, f.key, errors.ErrTransferPaused)
		f.status.Store(int32(transfertypes.TransferPaused))
	default:
		f.err = err
		f.status.Store(int32(transfertypes.TransferFailed))
		for _, l := range f.listeners {
			l.TransferFailed(f.bucket, f.key, err)
		}
	}
	close(f.done)
}
