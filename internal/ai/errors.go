package ai

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindDisabled    ErrorKind = "disabled"
	KindRateLimited ErrorKind = "rate_limited"
	KindUpstream    ErrorKind = "upstream"
)

var (
	// ErrDisabled is returned by every operation when no model credential is configured.
	ErrDisabled = &GenerationError{Kind: KindDisabled, Err: errors.New("ai generation is not configured")}
	// ErrInvalidRequest is returned for requests that cannot be sent to the model.
	ErrInvalidRequest = errors.New("invalid generation request")

	errEmptyReply = errors.New("model returned an empty reply")
)

// GenerationError reports a failed model call. Malformed model output is never a
// GenerationError; it is recovered with a fallback instead.
type GenerationError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("ai %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("ai %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a GenerationError in err's chain, or "" when there is none.
func KindOf(err error) ErrorKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return ""
}

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// upstream tags a model failure with the operation, keeping a kind already assigned by the model.
func upstream(op string, err error) error {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return &GenerationError{Kind: genErr.Kind, Op: op, Err: genErr.Err}
	}
	return &GenerationError{Kind: KindUpstream, Op: op, Err: err}
}
