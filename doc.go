// Package s3transfer provides a resumable transfer manager for uploading
// files to Amazon S3. It wraps AWS SDK v2 with single-part and concurrent
// multipart uploads, cooperative pause, and resume through portable tokens.
//
// A transfer started with UploadFile runs in the background and is observed
// through its FileUpload handle. Pausing a transfer produces a
// ResumableFileUpload token: a plain serializable value that any manager
// instance can later resume, uploading only the parts the store has not yet
// acknowledged. If the source file changed or the remote multipart upload
// expired in the meantime, resuming transparently restarts the transfer from
// the beginning.
//
// Key features:
//   - Simple, zero-configuration usage with AWS credential chain
//   - Progressive enhancement through functional options
//   - Automatic multipart upload for large files
//   - Concurrent part uploads with configurable limits
//   - Cooperative pause with consistent progress snapshots
//   - Manager-agnostic resume tokens with JSON and file round-trips
//   - Directory uploads with bounded parallelism
//
// Example usage:
//
//	tm, err := s3transfer.New(s3transfer.WithRegion("us-west-2"))
//	if err != nil {
//	    return err
//	}
//
//	fileUpload, err := tm.UploadFile(ctx, "my-bucket", "backups/db.snap", "/var/backups/db.snap")
//	if err != nil {
//	    return err
//	}
//
//	// Later, pause and persist the token.
//	token := fileUpload.Pause()
//	data, _ := token.Bytes()
//
//	// Possibly in another process: resume from the token.
//	token, _ = transfertypes.ParseResumableFileUpload(data)
//	resumed, err := tm.ResumeUploadFile(ctx, token)
//	if err != nil {
//	    return err
//	}
//	result, err := resumed.Wait(ctx)
package s3transfer
