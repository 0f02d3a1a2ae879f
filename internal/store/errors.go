package store

import "fmt"

// ErrStorage wraps any failure to read or write the ledger.
type ErrStorage struct {
	Op  string
	Err error
}

func (e *ErrStorage) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *ErrStorage) Unwrap() error { return e.Err }
