package model

import (
	"errors"
	"fmt"
)

// Client errors, detected before any storage round trip.
var (
	ErrInvalidTable  = errors.New("invalid table name")
	ErrInvalidPeriod = errors.New("invalid period")
)

// StorageStage names the round trip that failed.
type StorageStage string

const (
	StageIntrospect StorageStage = "introspect"
	StageQuery      StorageStage = "query"
)

// StorageError wraps a failed storage round trip. Introspection failures
// mean the catalog itself is unreachable; query failures happen after a
// successful introspection. Neither is retried.
type StorageError struct {
	Stage StorageStage
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Stage, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageUnavailable marks a failed metadata-catalog query.
func NewStorageUnavailable(err error) *StorageError {
	return &StorageError{Stage: StageIntrospect, Err: err}
}

// NewQueryFailed marks a failed data query.
func NewQueryFailed(err error) *StorageError {
	return &StorageError{Stage: StageQuery, Err: err}
}
