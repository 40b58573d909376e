package smart

import "codeberg.org/mutker/fanctl/internal/errors"

const (
	ErrSmartctlNotFound = errors.ErrorCode("smart_smartctl_not_found")
	ErrDiscoveryFailed  = errors.ErrorCode("smart_discovery_failed")
	ErrQueryFailed      = errors.ErrorCode("smart_query_failed")
	ErrNoTemperature    = errors.ErrorCode("smart_no_temperature")
)
