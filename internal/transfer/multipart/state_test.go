package multipart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/transfertypes"
)

func TestState_RegisterUpload(t *testing.T) {
	s := NewState(100)

	assert.Empty(t, s.UploadID())
	assert.Zero(t, s.PartSize())

	s.RegisterUpload("upload-1", 50, 2)

	uploadID, partSize, totalParts, parts := s.Details()
	assert.Equal(t, "upload-1", uploadID)
	assert.Equal(t, int64(50), partSize)
	assert.Equal(t, int32(2), totalParts)
	assert.Empty(t, parts)
}

func TestState_RecordPart(t *testing.T) {
	s := NewState(100)
	s.RegisterUpload("upload-1", 50, 2)

	s.RecordPart(transfertypes.CompletedPart{PartNumber: 2, ETag: "e2", Size: 50})
	s.RecordPart(transfertypes.CompletedPart{PartNumber: 1, ETag: "e1", Size: 50})

	assert.True(t, s.PartRecorded(1))
	assert.True(t, s.PartRecorded(2))
	assert.False(t, s.PartRecorded(3))

	snapshot := s.Snapshot()
	assert.Equal(t, int64(100), snapshot.TransferredBytes)
	assert.Equal(t, int64(100), snapshot.TotalBytes)

	// Details returns parts sorted by part number
	_, _, _, parts := s.Details()
	require.Len(t, parts, 2)
	assert.Equal(t, int32(1), parts[0].PartNumber)
	assert.Equal(t, int32(2), parts[1].PartNumber)
}

func TestState_RecordPartDeduplicates(t *testing.T) {
	s := NewState(100)

	s.RecordPart(transfertypes.CompletedPart{PartNumber: 1, ETag: "e1", Size: 50})
	s.RecordPart(transfertypes.CompletedPart{PartNumber: 1, ETag: "e1", Size: 50})

	assert.Equal(t, int64(50), s.Snapshot().TransferredBytes)
}

func TestNewResumedState(t *testing.T) {
	parts := []transfertypes.CompletedPart{
		{PartNumber: 1, ETag: "e1", Size: 40},
		{PartNumber: 3, ETag: "e3", Size: 20},
	}
	s := NewResumedState(100, "upload-1", 40, 3, parts)

	assert.Equal(t, "upload-1", s.UploadID())
	assert.Equal(t, int64(40), s.PartSize())
	assert.True(t, s.PartRecorded(1))
	assert.False(t, s.PartRecorded(2))
	assert.True(t, s.PartRecorded(3))

	// Seeded parts count as already transferred
	assert.Equal(t, int64(60), s.Snapshot().TransferredBytes)
}

func TestState_AddBytes(t *testing.T) {
	s := NewState(10)
	s.AddBytes(10)
	assert.Equal(t, int64(10), s.Snapshot().TransferredBytes)
}
