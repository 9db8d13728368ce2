// Package transfer manages multipart S3 transfer operations.
// This includes concurrent part uploads, resumable progress bookkeeping,
// and pause-safe shutdown of in-flight work.
//
// The transfer packages orchestrate high-level transfer operations and
// delegate to the AWS SDK for the actual S3 calls.
package transfer
