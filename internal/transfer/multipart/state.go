package multipart

import (
	"sort"
	"sync"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/transfertypes"
)

// State is the shared bookkeeping for one file transfer. The engine records
// acknowledged parts into it while the owning handle reads progress snapshots
// and, on pause, the full multipart details.
//
// All reads and writes go through the mutex so a pause snapshot taken after
// the engine has stopped is a consistent cut: every recorded part was fully
// acknowledged by the remote store, and no acknowledged part is missing.
type State struct {
	mu          sync.Mutex
	total       int64
	transferred int64
	uploadID    string
	partSize    int64
	totalParts  int32
	parts       map[int32]transfertypes.CompletedPart
}

// NewState creates bookkeeping for a transfer of the given total size.
func NewState(total int64) *State {
	return &State{
		total: total,
		parts: make(map[int32]transfertypes.CompletedPart),
	}
}

// NewResumedState creates bookkeeping seeded from a resumable token. The
// recorded parts count as already transferred.
func NewResumedState(
	total int64,
	uploadID string,
	partSize int64,
	totalParts int32,
	parts []transfertypes.CompletedPart,
) *State {
	s := NewState(total)
	s.uploadID = uploadID
	s.partSize = partSize
	s.totalParts = totalParts
	for _, p := range parts {
		s.parts[p.PartNumber] = p
		s.transferred += p.Size
	}
	return s
}

// RegisterUpload records the remote multipart upload identity. It is called
// exactly once per transfer, before any part is dispatched, so a pause
// snapshot always sees the upload id of any part it sees.
func (s *State) RegisterUpload(uploadID string, partSize int64, totalParts int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadID = uploadID
	s.partSize = partSize
	s.totalParts = totalParts
}

// UploadID returns the registered multipart upload id, or empty.
func (s *State) UploadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadID
}

// PartSize returns the registered part size, or zero.
func (s *State) PartSize() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.partSize
}

// RecordPart records a part acknowledged by the remote store.
func (s *State) RecordPart(p transfertypes.CompletedPart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.parts[p.PartNumber]; ok {
		return
	}
	s.parts[p.PartNumber] = p
	s.transferred += p.Size
}

// PartRecorded reports whether the given part number is already recorded.
func (s *State) PartRecorded(partNumber int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.parts[partNumber]
	return ok
}

// AddBytes adds transferred bytes outside part bookkeeping.
// Used by the single-part path, which has no parts to record.
func (s *State) AddBytes(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transferred += n
}

// Snapshot returns the current progress.
func (s *State) Snapshot() transfertypes.ProgressSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return transfertypes.ProgressSnapshot{
		TransferredBytes: s.transferred,
		TotalBytes:       s.total,
	}
}

// Details returns the multipart upload identity and the recorded parts
// sorted by part number. The upload id is empty when no multipart upload
// was registered.
func (s *State) Details() (uploadID string, partSize int64, totalParts int32, parts []transfertypes.CompletedPart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parts = make([]transfertypes.CompletedPart, 0, len(s.parts))
	for _, p := range s.parts {
		parts = append(parts, p)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })
	return s.uploadID, s.partSize, s.totalParts, parts
}
