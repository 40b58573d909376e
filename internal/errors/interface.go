package errors

// ErrorCode is a stable machine-readable identifier for an error condition.
// Codes are namespaced by package, e.g. "hwmon_sensor_read_failed".
type ErrorCode string

// Error is a coded error with optional context. Implementations are
// immutable: With* methods return copies.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory creates coded errors. Obtain one with New() at the top of a
// function and build errors from it.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
