package testutil

import (
	"sync"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/transfertypes"
)

// MockProgressTracker is a mock implementation of ProgressTracker for testing.
// It is safe for concurrent use; transfers report progress from worker goroutines.
type MockProgressTracker struct {
	mu               sync.Mutex
	UpdateCalled     bool
	CompleteCalled   bool
	ErrorCalled      bool
	BytesTransferred int64
	TotalBytes       int64
	LastError        error
	Updates          []ProgressUpdate
}

// ProgressUpdate represents a single progress update event.
type ProgressUpdate struct {
	Transferred int64
	Total       int64
}

// Update records a progress update.
func (m *MockProgressTracker) Update(bytesTransferred, totalBytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalled = true
	m.BytesTransferred = bytesTransferred
	m.TotalBytes = totalBytes
	m.Updates = append(m.Updates, ProgressUpdate{
		Transferred: bytesTransferred,
		Total:       totalBytes,
	})
}

// Complete marks the operation as complete.
func (m *MockProgressTracker) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteCalled = true
}

// Error records an error.
func (m *MockProgressTracker) Error(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorCalled = true
	m.LastError = err
}

// Snapshot returns the last recorded progress values.
func (m *MockProgressTracker) Snapshot() (transferred, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.BytesTransferred, m.TotalBytes
}

// RecordingListener is a TransferListener that records every event it
// receives, for asserting on listener behavior in tests.
type RecordingListener struct {
	mu        sync.Mutex
	Initiated []transfertypes.ProgressSnapshot
	Progress  []transfertypes.ProgressSnapshot
	Completed []transfertypes.ProgressSnapshot
	Failures  []error
}

// TransferInitiated records the start event.
func (r *RecordingListener) TransferInitiated(bucket, key string, snapshot transfertypes.ProgressSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Initiated = append(r.Initiated, snapshot)
}

// BytesTransferred records a progress event.
func (r *RecordingListener) BytesTransferred(bucket, key string, snapshot transfertypes.ProgressSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Progress = append(r.Progress, snapshot)
}

// TransferComplete records the completion event.
func (r *RecordingListener) TransferComplete(bucket, key string, snapshot transfertypes.ProgressSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Completed = append(r.Completed, snapshot)
}

// TransferFailed records a failure event.
func (r *RecordingListener) TransferFailed(bucket, key string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, err)
}

// InitiatedCount returns how many start events were seen.
func (r *RecordingListener) InitiatedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Initiated)
}

// CompletedCount returns how many completion events were seen.
func (r *RecordingListener) CompletedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Completed)
}
