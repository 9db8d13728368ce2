// Package internal contains private implementation details for the transfer
// manager. These packages are not intended for external use and may change
// without notice.
//
// The internal packages are organized as follows:
//   - s3api: S3 client interface for testing and mocking
//   - operations: Single-request S3 operation implementations
//   - transfer: Multipart transfer engine and resumable state
//   - validation: Input validation logic
//   - waiter: Bounded polling for remote conditions
//   - pool: Memory management optimizations
package internal
