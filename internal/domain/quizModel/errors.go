package quizModel

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDocument means extraction produced no usable text.
	ErrEmptyDocument = errors.New("document has no extractable text")

	// ErrUnsupportedDocument means the uploaded file has an extension no
	// extractor handles.
	ErrUnsupportedDocument = errors.New("unsupported document type")

	// ErrIndexNotBuilt means a retrieval query arrived before Build.
	ErrIndexNotBuilt = errors.New("retrieval index not built")

	// ErrGenerationUnavailable means the model itself is unreachable or out
	// of quota. Fatal for the request; the caller sees it as-is.
	ErrGenerationUnavailable = errors.New("generation model unavailable")

	// ErrEmptySubmission means a grading call carried zero answers.
	ErrEmptySubmission = errors.New("no answers to grade")
)

// MalformedOutputError classifies a generation attempt whose output failed
// the parse-and-validate boundary. It is recovered locally with a bounded
// corrective retry and never propagates as a batch failure.
type MalformedOutputError struct {
	Reason string
	Raw    string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed generation output: %s", e.Reason)
}
