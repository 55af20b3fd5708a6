package showcase

import "errors"

var (
	// ErrLoadFailed marks a snapshot that could not be fetched or decoded.
	// The controller stays in StateError afterwards.
	ErrLoadFailed = errors.New("catalog load failed")
	// ErrNotReady is returned by view operations before a successful load.
	ErrNotReady = errors.New("catalog not ready")

	ErrDownloadFailed = errors.New("download failed")
	ErrGrabFailed     = errors.New("grab failed")

	// ErrOperationInFlight is returned when the same operation is already
	// running for the item.
	ErrOperationInFlight = errors.New("operation already in flight")
	// ErrPreviewClosed is returned for a preview whose dialog was closed or
	// replaced before its graph resolved.
	ErrPreviewClosed = errors.New("preview closed")
)
