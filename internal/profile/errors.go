package profile

import "codeberg.org/mutker/fanctl/internal/errors"

const (
	ErrProfileNotFound    = errors.ErrorCode("profile_not_found")
	ErrProfileLoadFailed  = errors.ErrorCode("profile_load_failed")
	ErrProfileParseFailed = errors.ErrorCode("profile_parse_failed")
	ErrProfileInvalid     = errors.ErrorCode("profile_invalid")
)
