package domain

import "errors"

var (
	// ErrNotFound indicates that no ledger record exists for the given key.
	ErrNotFound = errors.New("sale record not found")
)
