// Package transfertypes provides shared type definitions for the transfer manager module.
package transfertypes

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
)

// StorageClass represents the S3 storage class for uploaded objects.
type StorageClass string

// Predefined S3 storage classes
const (
	// StorageClassStandard is the default S3 storage class
	StorageClassStandard StorageClass = "STANDARD"

	// StorageClassReducedRedundancy provides reduced redundancy storage
	StorageClassReducedRedundancy StorageClass = "REDUCED_REDUNDANCY"

	// StorageClassStandardIA provides infrequent access storage
	StorageClassStandardIA StorageClass = "STANDARD_IA"

	// StorageClassOneZoneIA provides one zone infrequent access storage
	StorageClassOneZoneIA StorageClass = "ONEZONE_IA"

	// StorageClassIntelligentTiering provides intelligent tiering storage
	StorageClassIntelligentTiering StorageClass = "INTELLIGENT_TIERING"

	// StorageClassGlacier provides Glacier archival storage
	StorageClassGlacier StorageClass = "GLACIER"

	// StorageClassDeepArchive provides Deep Archive storage
	StorageClassDeepArchive StorageClass = "DEEP_ARCHIVE"
)

// SSEType represents the server-side encryption type for objects.
type SSEType string

// Predefined server-side encryption types
const (
	// SSES3 uses S3-managed encryption keys
	SSES3 SSEType = "AES256"

	// SSEKMS uses AWS KMS-managed encryption keys
	SSEKMS SSEType = "aws:kms"
)

// SSEConfig contains server-side encryption configuration.
type SSEConfig struct {
	// Type is the encryption type (S3 or KMS)
	Type SSEType

	// KMSKeyID is the KMS key ID (required for SSE-KMS)
	KMSKeyID string
}

// TransferStatus describes the lifecycle state of a file transfer.
//
// Valid transitions: NotStarted -> InProgress -> {Paused, Completed, Failed}.
// A paused transfer re-enters InProgress only through a resume call, which
// creates a fresh handle. Completed and Failed are terminal.
type TransferStatus int32

// Transfer lifecycle states
const (
	// TransferNotStarted means the transfer has been accepted but no work has run yet
	TransferNotStarted TransferStatus = iota

	// TransferInProgress means the transfer is actively uploading
	TransferInProgress

	// TransferPaused means the transfer was paused and a resumable token was produced
	TransferPaused

	// TransferCompleted means the transfer finished successfully
	TransferCompleted

	// TransferFailed means the transfer failed
	TransferFailed
)

// String returns a human-readable name for the status.
func (s TransferStatus) String() string {
	switch s {
	case TransferNotStarted:
		return "not-started"
	case TransferInProgress:
		return "in-progress"
	case TransferPaused:
		return "paused"
	case TransferCompleted:
		return "completed"
	case TransferFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProgressSnapshot is a point-in-time view of transfer progress.
// TransferredBytes is monotonically non-decreasing for the lifetime of a
// handle and equals TotalBytes when the transfer completes successfully.
type ProgressSnapshot struct {
	// TransferredBytes is the number of bytes acknowledged by the remote store
	TransferredBytes int64

	// TotalBytes is the expected total size of the transfer
	TotalBytes int64
}

// ProgressTracker defines the interface for tracking transfer progress.
// Implementations can provide real-time progress updates during uploads.
type ProgressTracker interface {
	// Update is called periodically with transfer progress
	Update(bytesTransferred, totalBytes int64)

	// Complete is called when the transfer completes successfully
	Complete()

	// Error is called when the transfer fails
	Error(err error)
}

// TransferListener receives lifecycle events for a file transfer.
// All methods may be called from the transfer's internal goroutines and
// must be safe for concurrent use.
type TransferListener interface {
	// TransferInitiated is called once when the transfer starts
	TransferInitiated(bucket, key string, snapshot ProgressSnapshot)

	// BytesTransferred is called as parts are acknowledged by the remote store
	BytesTransferred(bucket, key string, snapshot ProgressSnapshot)

	// TransferComplete is called when the transfer finishes successfully
	TransferComplete(bucket, key string, snapshot ProgressSnapshot)

	// TransferFailed is called when the transfer fails
	TransferFailed(bucket, key string, err error)
}

// CompletedPart records one part acknowledged by the remote store during a
// multipart upload. The ETag is required to complete the upload later.
type CompletedPart struct {
	// PartNumber is the 1-based part index
	PartNumber int32 `json:"part_number"`

	// ETag is the entity tag returned by the store for this part
	ETag string `json:"etag"`

	// Size is the part size in bytes
	Size int64 `json:"size"`
}

// UploadResult contains the result of a completed upload.
type UploadResult struct {
	// Key is the S3 object key that was uploaded
	Key string

	// Size is the size of the uploaded object in bytes
	Size int64

	// ETag is the S3 entity tag for the uploaded object
	ETag string

	// VersionID is the version ID if versioning is enabled
	VersionID string

	// Duration is how long the upload took
	Duration time.Duration
}

// DirectoryUploadError records one file that failed during a directory upload.
type DirectoryUploadError struct {
	// Path is the local file path that failed
	Path string

	// Key is the destination object key
	Key string

	// Err is the underlying failure
	Err error
}

// DirectoryUploadResult aggregates the outcome of a directory upload.
// Individual file failures do not abort the batch; they are collected here.
type DirectoryUploadResult struct {
	// FilesUploaded is the number of files uploaded successfully
	FilesUploaded int

	// BytesTransferred is the total bytes uploaded
	BytesTransferred int64

	// Failed contains per-file failures
	Failed []DirectoryUploadError

	// Duration is how long the whole batch took
	Duration time.Duration
}

// UploadConfig holds resolved configuration for a single upload operation.
type UploadConfig struct {
	ContentType     string
	Metadata        map[string]string
	StorageClass    StorageClass
	SSE             *SSEConfig
	ProgressTracker ProgressTracker
	Listeners       []TransferListener
	PartSize        int64
	Concurrency     int
}

// ClientConfig holds configuration for the transfer manager.
type ClientConfig struct {
	Region              string
	Endpoint            string
	MaxRetries          int
	Timeout             time.Duration
	Concurrency         int
	PartSize            int64
	MultipartThreshold  int64
	ForcePathStyle      bool
	CustomAWSConfig     *aws.Config
	CustomHTTPClient    *http.Client
	ResumeCheckTimeout  time.Duration
	ResumeCheckInterval time.Duration
	Filesystem          fs.Filesystem // Filesystem abstraction for file operations
}

// UploadOptionConfig holds configuration for upload operations via functional options.
type UploadOptionConfig struct {
	ContentType     string
	Metadata        map[string]string
	StorageClass    StorageClass
	SSE             *SSEConfig
	ProgressTracker ProgressTracker
	Listeners       []TransferListener
	PartSize        int64
	Concurrency     int
}

// DirectoryOptionConfig holds configuration for directory upload operations.
type DirectoryOptionConfig struct {
	Parallelism     int
	IncludeHidden   bool
	Listeners       []TransferListener
	ProgressTracker ProgressTracker
}

// Option is a functional option for configuring the transfer manager.
type (
	Option func(*ClientConfig)
	// UploadOption is a functional option for configuring upload operations.
	UploadOption func(*UploadOptionConfig)
	// DirectoryOption is a functional option for configuring directory uploads.
	DirectoryOption func(*DirectoryOptionConfig)
)
