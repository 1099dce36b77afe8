package ledger

import "errors"

// Lookup errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrQuickActionNotFound = errors.New("quick action not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrProfileExists       = errors.New("profile already exists")
)

// Input errors
var (
	ErrInvalidProfileName = errors.New("invalid profile name")
	ErrInvalidQuickAction = errors.New("invalid quick action")
	ErrInvalidGoal        = errors.New("goal must be a positive number")
	ErrInvalidDate        = errors.New("invalid transaction date")
	ErrInvalidPagination  = errors.New("page and limit must be positive")
	ErrInvalidImport      = errors.New("invalid import data")
)
