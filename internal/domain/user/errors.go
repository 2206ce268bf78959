package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrSubstituteNotFound = errors.New("substitute not found")
)
