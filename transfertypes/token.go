package transfertypes

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
)

// ResumableFileUpload is a portable snapshot of a paused file upload.
//
// The token is a plain value type with no references to the manager that
// produced it: a token produced by one manager instance can be consumed by
// any other. Destination identity and source signature are always populated.
// The four progress fields (MultipartUploadID, PartSize, TotalParts,
// TransferredParts) are populated together once a multipart upload has been
// registered remotely, and are all empty otherwise.
type ResumableFileUpload struct {
	// Bucket is the destination bucket
	Bucket string `json:"bucket"`

	// Key is the destination object key
	Key string `json:"key"`

	// SourcePath is the local path of the file being uploaded
	SourcePath string `json:"source_path"`

	// SourceSize is the file size in bytes recorded at pause time
	SourceSize int64 `json:"source_size"`

	// SourceModTime is the file modification time recorded at pause time
	SourceModTime time.Time `json:"source_mod_time"`

	// MultipartUploadID identifies the remote multipart upload, if one was registered
	MultipartUploadID string `json:"multipart_upload_id,omitempty"`

	// PartSize is the part size in bytes used by the paused upload
	PartSize int64 `json:"part_size,omitempty"`

	// TotalParts is the number of parts the paused upload was split into
	TotalParts int32 `json:"total_parts,omitempty"`

	// TransferredParts lists the parts acknowledged by the store before the pause
	TransferredParts []CompletedPart `json:"transferred_parts,omitempty"`
}

// IsEmpty reports whether the token carries no recorded multipart progress.
// An empty token resumes by restarting the transfer from the beginning.
func (r ResumableFileUpload) IsEmpty() bool {
	return r.MultipartUploadID == "" &&
		r.PartSize == 0 &&
		r.TotalParts == 0 &&
		len(r.TransferredParts) == 0
}

// TransferredBytes returns the number of bytes covered by recorded parts.
func (r ResumableFileUpload) TransferredBytes() int64 {
	var n int64
	for _, p := range r.TransferredParts {
		n += p.Size
	}
	return n
}

// Bytes serializes the token to JSON.
func (r ResumableFileUpload) Bytes() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("serialize resumable upload: %w", err)
	}
	return data, nil
}

// ParseResumableFileUpload deserializes a token previously produced by Bytes
// or read from a token file.
func ParseResumableFileUpload(data []byte) (ResumableFileUpload, error) {
	var r ResumableFileUpload
	if err := json.Unmarshal(data, &r); err != nil {
		return ResumableFileUpload{}, fmt.Errorf("parse resumable upload: %w", err)
	}
	return r, nil
}

// WriteToFile persists the token at the given path.
func (r ResumableFileUpload) WriteToFile(fsys fs.Filesystem, path string) error {
	data, err := r.Bytes()
	if err != nil {
		return err
	}
	if err := fsys.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write resumable upload file: %w", err)
	}
	return nil
}

// ReadResumableFileUploadFromFile loads a token persisted by WriteToFile.
func ReadResumableFileUploadFromFile(fsys fs.Filesystem, path string) (ResumableFileUpload, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return ResumableFileUpload{}, fmt.Errorf("read resumable upload file: %w", err)
	}
	return ParseResumableFileUpload(data)
}
