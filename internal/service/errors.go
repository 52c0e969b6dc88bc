package service

import "fmt"

// ValidationError is a client-side rejection raised before any network call
// or ledger write.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NetworkError is a transport-level failure reaching the automation backend.
// It is the only failure class that earns an automatic-retry hint.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// DomainError is a non-2xx response from the backend, carrying whatever
// human-readable message could be pulled from the body.
type DomainError struct {
	StatusCode int
	Message    string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}
