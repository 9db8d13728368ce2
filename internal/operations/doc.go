// Package operations contains single-request S3 operation implementations.
// These functions handle the low-level AWS SDK interactions that do not
// need the multipart transfer engine.
//
// Each operation is isolated into its own subpackage for better organization
// and testability.
package operations
