package util

import "errors"

var (
	ErrStudentNotFound       = errors.New("student not found")
	ErrWorksheetNotFound     = errors.New("worksheet not found")
	ErrEmailRegistered       = errors.New("email already registered")
	ErrUserNameTaken         = errors.New("username already taken")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrInvalidResetToken     = errors.New("invalid or expired reset token")
	ErrEmailDelivery         = errors.New("email delivery failed")
	ErrProfileIncomplete     = errors.New("student must have at least one category and one interest selected")
	ErrWorksheetExistsToday  = errors.New("incomplete worksheet already exists for today")
	ErrInvalidWorksheetState = errors.New("invalid worksheet state transition")
	ErrAnswerCountMismatch   = errors.New("answer count does not match question count")
)
