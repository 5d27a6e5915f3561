package document

import (
	"errors"
	"fmt"
)

// Status is the local lifecycle of a document. The zero value is not a valid status.
type Status int

const (
	StatusStarted Status = iota + 1
	StatusPreserved
	StatusFailed
)

const (
	wireStarted   = "INICIADA"
	wirePreserved = "PRESERVADO"
	wireFailed    = "FALHA"
)

var (
	ErrUnknownStatus     = errors.New("unknown document status")
	ErrInvalidTransition = errors.New("invalid document status transition")
)

func ParseStatus(s string) (Status, error) {
	switch s {
	case wireStarted:
		return StatusStarted, nil
	case wirePreserved:
		return StatusPreserved, nil
	case wireFailed:
		return StatusFailed, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

func (s Status) String() string {
	switch s {
	case StatusStarted:
		return wireStarted
	case StatusPreserved:
		return wirePreserved
	case StatusFailed:
		return wireFailed
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusPreserved, StatusFailed:
		return true
	case StatusStarted:
		return false
	default:
		return false
	}
}

// CanTransition reports whether s -> next is allowed. Only INICIADA moves.
func (s Status) CanTransition(next Status) bool {
	if s != StatusStarted {
		return false
	}
	return next.IsTerminal()
}

func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case StatusStarted, StatusPreserved, StatusFailed:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, int(s))
	}
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
