package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")
	ErrValidation       = errors.New("validation error")
	ErrPermissionDenied = errors.New("operation is not permitted for this user")

	ErrOwnerNotFound    = errors.New("activity owner doesn't exists")
	ErrActivityNotFound = errors.New("activity doesn't exists")
	ErrWrongOwner       = errors.New("activity has different owner")

	ErrEntryNotFound = errors.New("leaderboard entry doesn't exists")
)
