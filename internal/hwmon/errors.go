package hwmon

import "codeberg.org/mutker/fanctl/internal/errors"

const (
	ErrScanFailed       = errors.ErrorCode("hwmon_scan_failed")
	ErrSensorRead       = errors.ErrorCode("hwmon_sensor_read_failed")
	ErrFanNotFound      = errors.ErrorCode("hwmon_fan_not_found")
	ErrInvalidDuty      = errors.ErrorCode("hwmon_invalid_duty_cycle")
	ErrPWMWrite         = errors.ErrorCode("hwmon_pwm_write_failed")
	ErrPWMRead          = errors.ErrorCode("hwmon_pwm_read_failed")
	ErrSpeedUnavailable = errors.ErrorCode("hwmon_fan_speed_unavailable")
)
