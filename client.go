// Package s3transfer provides manager initialization and configuration.
//
// The Manager provides a high-level interface for transferring files to
// Amazon S3, supporting single-part and concurrent multipart uploads with
// cooperative pause and resume via portable resumable tokens.
package s3transfer

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/transfertypes"
)

// Default tuning values applied when no option overrides them.
const (
	defaultMaxRetries          = 3
	defaultConcurrency         = 5
	defaultPartSize            = 8 * 1024 * 1024
	defaultMultipartThreshold  = 16 * 1024 * 1024
	defaultResumeCheckTimeout  = time.Minute
	defaultResumeCheckInterval = 100 * time.Millisecond
)

// Manager represents a transfer manager with configurable options.
// It is safe for concurrent use; each upload runs in its own goroutine
// and is observed through its FileUpload handle.
type Manager struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client s3api.S3API

	// rawClient holds the actual AWS S3 client for operations that need it
	rawClient *s3.Client

	// config holds the AWS configuration
	config aws.Config

	// cfg holds the resolved manager configuration
	cfg transfertypes.ClientConfig

	// mu protects concurrent access to manager configuration
	mu sync.RWMutex

	// fs is the filesystem abstraction for file operations
	fs fs.Filesystem
}

// New creates a new transfer manager with the provided options.
// It loads AWS credentials using the default credential chain
// and applies the specified configuration options.
//
// Example:
//
//	tm, err := s3transfer.New(
//	    s3transfer.WithRegion("us-west-2"),
//	    s3transfer.WithConcurrency(8),
//	)
func New(opts ...transfertypes.Option) (*Manager, error) {
	clientCfg := defaultClientConfig()
	for _, opt := range opts {
		opt(&clientCfg)
	}

	var cfg aws.Config
	var err error

	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		cfg, err = config.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, errors.NewError("manager initialization", err)
		}
	}

	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1" // AWS default region
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	var s3Opts []func(*s3.Options)

	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	if clientCfg.Timeout > 0 {
		httpClient := &http.Client{
			Timeout: clientCfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}
	if clientCfg.CustomHTTPClient != nil {
		httpClient := clientCfg.CustomHTTPClient
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	s3Client := s3.NewFromConfig(cfg, s3Opts...)

	var filesystem fs.Filesystem
	if clientCfg.Filesystem != nil {
		filesystem = clientCfg.Filesystem
	} else {
		// Default to OS filesystem rooted at /
		filesystem = billy.NewOSFS("/")
	}

	return &Manager{
		s3Client:  s3Client,
		rawClient: s3Client,
		config:    cfg,
		cfg:       clientCfg,
		fs:        filesystem,
	}, nil
}

// NewWithClient creates a new transfer manager with a custom S3API
// implementation. This is primarily used for testing with mocked clients.
func NewWithClient(s3Client s3api.S3API, opts ...transfertypes.Option) *Manager {
	clientCfg := defaultClientConfig()
	for _, opt := range opts {
		opt(&clientCfg)
	}

	var filesystem fs.Filesystem
	if clientCfg.Filesystem != nil {
		filesystem = clientCfg.Filesystem
	} else {
		filesystem = billy.NewOSFS("/")
	}

	return &Manager{
		s3Client: s3Client,
		config:   aws.Config{},
		cfg:      clientCfg,
		fs:       filesystem,
	}
}

// defaultClientConfig returns the baseline manager configuration.
func defaultClientConfig() transfertypes.ClientConfig {
	return transfertypes.ClientConfig{
		MaxRetries:          defaultMaxRetries,
		Concurrency:         defaultConcurrency,
		PartSize:            defaultPartSize,
		MultipartThreshold:  defaultMultipartThreshold,
		ResumeCheckTimeout:  defaultResumeCheckTimeout,
		ResumeCheckInterval: defaultResumeCheckInterval,
	}
}

// SetFilesystem sets the filesystem implementation for the manager.
// This is useful for testing or when the filesystem needs to be changed
// after creation.
func (m *Manager) SetFilesystem(filesystem fs.Filesystem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fs = filesystem
}

// getClientConfig returns a copy of the resolved manager configuration.
func (m *Manager) getClientConfig() transfertypes.ClientConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// filesystem returns the filesystem abstraction in use.
func (m *Manager) filesystem() fs.Filesystem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fs
}

// Close releases any resources held by the manager.
// Currently a no-op but included for future extensibility.
func (m *Manager) Close() error {
	return nil
}
