package service

import "errors"

var (
	ErrVehicleRequestNotFound = errors.New("vehicle request not found")
	ErrDepartmentNotFound     = errors.New("department not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrTicketConflict         = errors.New("ticket number already issued, please retry")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrLevelForbidden         = errors.New("role may not decide this approval level")
	ErrInvalidRequest         = errors.New("invalid vehicle request")
	ErrUsernameTaken          = errors.New("username already exists")
	ErrInvalidAccount         = errors.New("invalid account")
	ErrCannotDeleteSelf       = errors.New("cannot delete the signed in account")
	ErrInvalidAuditFilter     = errors.New("invalid audit filter")
)
