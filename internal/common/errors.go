package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable classification of a pipeline failure.
type Kind string

const (
	// KindUnsupportedFormat - input format not recognized.
	KindUnsupportedFormat Kind = "UNSUPPORTED_FORMAT"
	// KindCorruptDocument - format recognized but no usable text extracted.
	KindCorruptDocument Kind = "CORRUPT_DOCUMENT"
	// KindModelUnavailable - transport or timeout failure talking to the model client.
	KindModelUnavailable Kind = "MODEL_UNAVAILABLE"
	// KindMalformedResponse - the model replied but its output did not parse.
	KindMalformedResponse Kind = "MALFORMED_RESPONSE"
	// KindExtractionExhausted - the repair loop gave up.
	KindExtractionExhausted Kind = "EXTRACTION_EXHAUSTED"
	// KindInvalidInput - caller supplied an unusable request.
	KindInvalidInput Kind = "INVALID_INPUT"
	// KindInternal - anything we did not classify.
	KindInternal Kind = "INTERNAL"
)

// PipelineError carries a machine-readable kind plus a human-readable diagnostic.
type PipelineError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// NewPipelineError constructs a classified error.
func NewPipelineError(kind Kind, message string, cause error) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// Errorf constructs a classified error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *PipelineError {
	return &PipelineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the classification from an error chain.
func KindOf(err error) Kind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

// MessageOf extracts the diagnostic message from an error chain,
// falling back to the full error string.
func MessageOf(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// HTTPStatus maps an error kind to the status code the serving layer returns.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnsupportedFormat, KindCorruptDocument, KindInvalidInput:
		return http.StatusBadRequest
	case KindModelUnavailable, KindMalformedResponse, KindExtractionExhausted:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WrapError annotates err with a message, preserving the chain.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
