package database

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrCapacityExceeded   = errors.New("room capacity exceeded")
)
