package booksync

import "fmt"

// SyncError is a business failure carrying its wire error code. Sync
// failures map to HTTP 400; recovery is a full retry of the payload, not
// a rollback, since the book steps may already have been applied.
type SyncError struct {
	Code string
	Err  error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// ErrCommerceNotActive is returned when the product subsystem is
// disabled. The wire code keeps the name the upstream app already
// handles.
var ErrCommerceNotActive = &SyncError{Code: "woocommerce_not_active"}

func storeError(err error) *SyncError {
	return &SyncError{Code: "store_error", Err: err}
}
