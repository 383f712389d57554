package feedback

import (
	"fmt"
	"net/http"

	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

// ErrorKind classifies a rejected submission
type ErrorKind int

const (
	// MissingBody means the request carried no body at all
	MissingBody ErrorKind = iota
	// InvalidBody means the body was not a JSON object
	InvalidBody
	// MissingField means a required parameter was absent
	MissingField
	// InvalidType means a parameter was present with the wrong JSON type
	InvalidType
)

func (k ErrorKind) String() string {
	switch k {
	case MissingBody:
		return "MissingBody"
	case InvalidBody:
		return "InvalidBody"
	case MissingField:
		return "MissingField"
	case InvalidType:
		return "InvalidType"
	default:
		return "Unknown"
	}
}

// ValidationError is returned when a submission cannot become a FeedbackRecord.
// Its message is part of the public API contract and is returned verbatim as
// the 400 response body.
type ValidationError struct {
	Kind  ErrorKind
	Param string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingBody:
		return "Error: request body is missing"
	case InvalidBody:
		return "Error: request body is not a valid JSON object"
	case MissingField:
		return fmt.Sprintf("Error: parameter %s is a required parameter", e.Param)
	case InvalidType:
		return fmt.Sprintf("Error: parameter %s has an invalid type", e.Param)
	default:
		return "Error: invalid request"
	}
}

// Response renders the error as a 400 submitter response
func (e *ValidationError) Response() *types.Response {
	return &types.Response{
		StatusCode: http.StatusBadRequest,
		Body:       e.Error(),
	}
}
