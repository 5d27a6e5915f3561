package transfer

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("missing required transfer parameters: name or paths")
	ErrRemote     = errors.New("preservation pipeline request failed")
	ErrNotFound   = errors.New("not found")
	ErrTimeout    = errors.New("SIP not created in time")
	ErrNotReady   = errors.New("document not preserved yet")

	ErrInvalidType      = fmt.Errorf("%w: unknown transfer type", ErrValidation)
	ErrTransferNotFound = fmt.Errorf("transfer %w", ErrNotFound)
	ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)
)

// RemoteError keeps the failed operation for callers while hiding transport detail.
type RemoteError struct {
	Op string
}

func (e *RemoteError) Error() string { return e.Op + " failed" }

func (e *RemoteError) Unwrap() error { return ErrRemote }

func NewRemoteError(op string) error { return &RemoteError{Op: op} }

// CreationError wraps the root cause of a failed document creation.
type CreationError struct {
	Err error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("document creation failed: %v", e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }
