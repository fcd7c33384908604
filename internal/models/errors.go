package models

import "errors"

// Error constants for declaration request operations
var (
	ErrPermissionDenied    = errors.New("caller role does not permit this operation")
	ErrDeclarationNotFound = errors.New("declaration not found")
	ErrRequestNotFound     = errors.New("declaration request not found")
	ErrUserNotFound        = errors.New("user profile not found")
	ErrDuplicatePending    = errors.New("a pending request for this declaration already exists")
	ErrInvalidStatus       = errors.New("invalid request status")
	ErrEmptyDocument       = errors.New("rendered document is empty")
)
