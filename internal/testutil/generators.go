package testutil

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
)

// WriteRandomFile writes size bytes of random content to path on the given
// filesystem, creating parent directories as needed, and returns the content.
func WriteRandomFile(fsys fs.Filesystem, path string, size int64, seed int64) ([]byte, error) {
	data := RandomBytes(size, seed)

	dir := filepath.Dir(path)
	if dir != "." && dir != "/" {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %q: %w", dir, err)
		}
	}
	if err := fsys.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %q: %w", path, err)
	}
	return data, nil
}

// RandomBytes returns size bytes of pseudo-random content. The same seed
// always yields the same content, so tests can reproduce failures.
func RandomBytes(size int64, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	data := make([]byte, size)
	r.Read(data)
	return data
}

// GenerateTestBucketName returns a unique, valid bucket name with the given
// prefix.
func GenerateTestBucketName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// GenerateTestKey returns a unique object key with the given prefix.
func GenerateTestKey(prefix string) string {
	return fmt.Sprintf("%s/%d.bin", prefix, time.Now().UnixNano())
}
