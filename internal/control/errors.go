package control

import "codeberg.org/mutker/fanctl/internal/errors"

const (
	ErrInvalidLoopConfig = errors.ErrorCode("control_invalid_config")
	ErrMissingSource     = errors.ErrorCode("control_missing_source")
	ErrMissingActuator   = errors.ErrorCode("control_missing_actuator")
	ErrActuatorWrite     = errors.ErrorCode("control_actuator_write_failed")
)
