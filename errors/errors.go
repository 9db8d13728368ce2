// Package errors provides error types and handling for S3 transfer operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a transfer operation error with context about the
// operation that failed. It wraps the underlying AWS SDK error with
// additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "uploadFile", "resumeUploadFile")
	Op string

	// Bucket is the S3 bucket name (if applicable)
	Bucket string

	// Key is the S3 object key (if applicable)
	Key string

	// Err is the underlying error from the AWS SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3transfer.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3transfer.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("s3transfer.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("s3transfer.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// Sentinel errors for common transfer failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("s3transfer: invalid input")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("s3transfer: invalid object key")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("s3transfer: invalid bucket name")

	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("s3transfer: object not found")

	// ErrUploadNotFound indicates that a multipart upload id no longer exists
	// remotely. This is a normal outcome after the engine aborts an upload,
	// not an unexpected failure.
	ErrUploadNotFound = errors.New("s3transfer: multipart upload not found")

	// ErrTransferPaused indicates that a transfer was stopped by a pause.
	// Wait returns it for a paused handle; it never means the transfer failed.
	ErrTransferPaused = errors.New("s3transfer: transfer paused")

	// ErrWaitTimeout indicates that a bounded wait for a remote condition
	// elapsed without reaching a definite answer.
	ErrWaitTimeout = errors.New("s3transfer: wait timeout")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("s3transfer: access denied")
)

// IsUploadNotFound checks if an error indicates a missing multipart upload id.
func IsUploadNotFound(err error) bool {
	return errors.Is(err, ErrUploadNotFound)
}

// IsTransferPaused checks if an error indicates a paused transfer.
func IsTransferPaused(err error) bool {
	return errors.Is(err, ErrTransferPaused)
}

// IsWaitTimeout checks if an error indicates an exceeded bounded wait.
func IsWaitTimeout(err error) bool {
	return errors.Is(err, ErrWaitTimeout)
}

// IsInvalidInput checks if an error indicates invalid input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
