// Package s3transfer provides functional options for configuring manager behavior.
// These options follow the functional options pattern for clean, composable configuration.
package s3transfer

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/transfertypes"
)

// WithRegion sets the AWS region for transfer operations.
// If not specified, uses the default AWS region from the credential chain.
func WithRegion(region string) transfertypes.Option {
	return func(c *transfertypes.ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) transfertypes.Option {
	return func(c *transfertypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithMaxRetries sets the maximum number of retry attempts for failed requests.
// Default is 3 retries. Retries below the multipart layer are handled by the SDK.
func WithMaxRetries(maxRetries int) transfertypes.Option {
	return func(c *transfertypes.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout sets the timeout for individual S3 requests.
// Default is no timeout (0). Values should be positive durations.
func WithTimeout(timeout time.Duration) transfertypes.Option {
	return func(c *transfertypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithConcurrency sets the maximum number of concurrently uploaded parts.
// Default is 5 concurrent part uploads.
func WithConcurrency(concurrency int) transfertypes.Option {
	return func(c *transfertypes.ClientConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithPartSize sets the part size for multipart uploads.
// Default is 8MB. Must be at least 5MB for S3 multipart uploads.
func WithPartSize(partSize int64) transfertypes.Option {
	return func(c *transfertypes.ClientConfig) {
		if partSize > 0 {
			c.PartSize = partSize
		}
	}
}

// WithMultipartThreshold sets the object size at which uploads switch from a
// single PutObject request to a multipart upload. Default is 16MB.
func WithMultipartThreshold(threshold int64) transfertypes.Option {
	return func(c *transfertypes.ClientConfig) {
		if threshold > 0 {
			c.MultipartThreshold = threshold
		}
	}
}

// WithForcePathStyle forces the use of path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual hosting.
// Default is false (uses virtual-hosted style).
func WithForcePathStyle(forcePathStyle bool) transfertypes.Option {
	return func(c *transfertypes.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
func WithAWSConfig(config *aws.Config) transfertypes.Option {
	return func(c *transfertypes.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithCustomHTTPClient allows providing a custom HTTP client.
// This gives full control over HTTP behavior including timeouts and proxies.
func WithCustomHTTPClient(client *http.Client) transfertypes.Option {
	return func(c *transfertypes.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithResumeCheckTimeout bounds the remote existence check performed when
// resuming from a token. Default is one minute.
func WithResumeCheckTimeout(timeout time.Duration) transfertypes.Option {
	return func(c *transfertypes.ClientConfig) {
		if timeout > 0 {
			c.ResumeCheckTimeout = timeout
		}
	}
}

// WithResumeCheckInterval sets the poll interval for the remote existence
// check performed when resuming from a token. Default is 100ms.
func WithResumeCheckInterval(interval time.Duration) transfertypes.Option {
	return func(c *transfertypes.ClientConfig) {
		if interval > 0 {
			c.ResumeCheckInterval = interval
		}
	}
}

// WithFilesystem sets a custom filesystem implementation for file operations.
// This allows using in-memory filesystems for testing or virtual filesystems.
// If not specified, defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) transfertypes.Option {
	return func(c *transfertypes.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithContentType sets the content type for upload operations.
func WithContentType(contentType string) transfertypes.UploadOption {
	return func(c *transfertypes.UploadOptionConfig) {
		c.ContentType = contentType
	}
}

// WithUploadMetadata sets metadata for upload operations.
func WithUploadMetadata(metadata map[string]string) transfertypes.UploadOption {
	return func(c *transfertypes.UploadOptionConfig) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.Metadata[k] = v
		}
	}
}

// WithStorageClass sets the storage class for upload operations.
func WithStorageClass(storageClass transfertypes.StorageClass) transfertypes.UploadOption {
	return func(c *transfertypes.UploadOptionConfig) {
		c.StorageClass = storageClass
	}
}

// WithServerSideEncryption sets server-side encryption configuration for upload operations.
func WithServerSideEncryption(sse *transfertypes.SSEConfig) transfertypes.UploadOption {
	return func(c *transfertypes.UploadOptionConfig) {
		c.SSE = sse
	}
}

// WithProgress sets a progress tracker for upload operations.
func WithProgress(tracker transfertypes.ProgressTracker) transfertypes.UploadOption {
	return func(c *transfertypes.UploadOptionConfig) {
		c.ProgressTracker = tracker
	}
}

// WithTransferListener registers a listener for transfer lifecycle events.
// May be given multiple times; listeners are notified in registration order.
func WithTransferListener(listener transfertypes.TransferListener) transfertypes.UploadOption {
	return func(c *transfertypes.UploadOptionConfig) {
		c.Listeners = append(c.Listeners, listener)
	}
}

// WithUploadPartSize sets the part size for multipart uploads in upload operations.
// This overrides the manager-level default for this specific upload.
func WithUploadPartSize(partSize int64) transfertypes.UploadOption {
	return func(c *transfertypes.UploadOptionConfig) {
		if partSize > 0 {
			c.PartSize = partSize
		}
	}
}

// WithUploadConcurrency sets the concurrency level for multipart uploads in
// upload operations. This overrides the manager-level default for this
// specific upload.
func WithUploadConcurrency(concurrency int) transfertypes.UploadOption {
	return func(c *transfertypes.UploadOptionConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithDirectoryParallelism sets how many files a directory upload transfers
// at once. Default is the manager concurrency.
func WithDirectoryParallelism(parallelism int) transfertypes.DirectoryOption {
	return func(c *transfertypes.DirectoryOptionConfig) {
		if parallelism > 0 {
			c.Parallelism = parallelism
		}
	}
}

// WithIncludeHidden includes dot-files in directory uploads.
// Hidden files are skipped by default.
func WithIncludeHidden(include bool) transfertypes.DirectoryOption {
	return func(c *transfertypes.DirectoryOptionConfig) {
		c.IncludeHidden = include
	}
}

// WithDirectoryProgress sets a progress tracker shared by every file in a
// directory upload.
func WithDirectoryProgress(tracker transfertypes.ProgressTracker) transfertypes.DirectoryOption {
	return func(c *transfertypes.DirectoryOptionConfig) {
		c.ProgressTracker = tracker
	}
}

// WithDirectoryTransferListener registers a listener applied to every file
// in a directory upload.
func WithDirectoryTransferListener(listener transfertypes.TransferListener) transfertypes.DirectoryOption {
	return func(c *transfertypes.DirectoryOptionConfig) {
		c.Listeners = append(c.Listeners, listener)
	}
}
