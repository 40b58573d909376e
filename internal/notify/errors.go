package notify

import "codeberg.org/mutker/fanctl/internal/errors"

const (
	ErrInvalidSink       = errors.ErrorCode("notify_invalid_sink")
	ErrSyslogUnavailable = errors.ErrorCode("notify_syslog_unavailable")
	ErrDeliveryFailed    = errors.ErrorCode("notify_delivery_failed")
)
