package s3transfer

import (
	"log/slog"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/transfertypes"
)

// LoggingListener is a TransferListener that logs lifecycle events through
// a structured logger. It is safe for concurrent use.
type LoggingListener struct {
	logger *slog.Logger
}

// NewLoggingListener creates a listener that logs transfer events.
// A nil logger uses slog.Default().
func NewLoggingListener(logger *slog.Logger) *LoggingListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingListener{logger: logger}
}

// TransferInitiated logs the start of a transfer.
func (l *LoggingListener) TransferInitiated(bucket, key string, snapshot transfertypes.ProgressSnapshot) {
	l.logger.Info("transfer initiated",
		"bucket", bucket,
		"key", key,
		"total_bytes", snapshot.TotalBytes,
	)
}

// BytesTransferred logs incremental progress at debug level.
func (l *LoggingListener) BytesTransferred(bucket, key string, snapshot transfertypes.ProgressSnapshot) {
	l.logger.Debug("bytes transferred",
		"bucket", bucket,
		"key", key,
		"transferred_bytes", snapshot.TransferredBytes,
		"total_bytes", snapshot.TotalBytes,
	)
}

// TransferComplete logs successful completion.
func (l *LoggingListener) TransferComplete(bucket, key string, snapshot transfertypes.ProgressSnapshot) {
	l.logger.Info("transfer complete",
		"bucket", bucket,
		"key", key,
		"transferred_bytes", snapshot.TransferredBytes,
	)
}

// TransferFailed logs a failed transfer.
func (l *LoggingListener) TransferFailed(bucket, key string, err error) {
	l.logger.Error("transfer failed",
		"bucket", bucket,
		"key", key,
		"error", err,
	)
}
