// Package auctionerrors defines the sentinel errors shared by the storage
// implementations, so callers can branch with errors.Is regardless of the
// backing store.
package auctionerrors

import "errors"

var ErrUserNotFound = errors.New("user not found")
