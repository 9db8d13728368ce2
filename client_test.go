// Package s3transfer provides tests for manager initialization and configuration.
package s3transfer

import (
	"sync"
	"testing"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/transfertypes"
)

// TestManager_New tests the New() constructor with default configuration.
func TestManager_New(t *testing.T) {
	tests := []struct {
		name string
		opts []transfertypes.Option
	}{
		{
			name: "default configuration",
		},
		{
			name: "with region option",
			opts: []transfertypes.Option{WithRegion("us-west-2")},
		},
		{
			name: "with multiple options",
			opts: []transfertypes.Option{
				WithRegion("us-east-1"),
				WithMaxRetries(5),
				WithEndpoint("http://localhost:4566"),
				WithForcePathStyle(true),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.opts...)
			require.NoError(t, err)
			require.NotNil(t, m)
			assert.NotNil(t, m.s3Client)
			assert.NotNil(t, m.filesystem())
		})
	}
}

func TestManager_NewWithClient_Defaults(t *testing.T) {
	m := NewWithClient(&testutil.MockS3Client{})

	cfg := m.getClientConfig()
	assert.Equal(t, defaultConcurrency, cfg.Concurrency)
	assert.Equal(t, int64(defaultPartSize), cfg.PartSize)
	assert.Equal(t, int64(defaultMultipartThreshold), cfg.MultipartThreshold)
	assert.Equal(t, defaultResumeCheckTimeout, cfg.ResumeCheckTimeout)
	assert.Equal(t, defaultResumeCheckInterval, cfg.ResumeCheckInterval)
}

func TestManager_NewWithClient_Options(t *testing.T) {
	m := NewWithClient(&testutil.MockS3Client{},
		WithConcurrency(8),
		WithPartSize(16<<20),
		WithMultipartThreshold(32<<20),
		WithResumeCheckTimeout(30*time.Second),
		WithResumeCheckInterval(time.Second),
	)

	cfg := m.getClientConfig()
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, int64(16<<20), cfg.PartSize)
	assert.Equal(t, int64(32<<20), cfg.MultipartThreshold)
	assert.Equal(t, 30*time.Second, cfg.ResumeCheckTimeout)
	assert.Equal(t, time.Second, cfg.ResumeCheckInterval)
}

func TestManager_SetFilesystem(t *testing.T) {
	m := NewWithClient(&testutil.MockS3Client{})

	memfs := billy.NewInMemoryFS()
	m.SetFilesystem(memfs)
	assert.Equal(t, memfs, m.filesystem())
}

// TestManager_ConcurrentConfigAccess verifies configuration reads are safe
// while the filesystem is being swapped.
func TestManager_ConcurrentConfigAccess(t *testing.T) {
	m := NewWithClient(&testutil.MockS3Client{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.SetFilesystem(billy.NewInMemoryFS())
			_ = m.getClientConfig()
			_ = m.filesystem()
		}()
	}
	wg.Wait()
}

func TestManager_Close(t *testing.T) {
	m := NewWithClient(&testutil.MockS3Client{})
	assert.NoError(t, m.Close())
}
