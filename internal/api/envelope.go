package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the wire version of the response envelope. Bump only
// when the envelope structure itself changes, never for payload changes.
const EnvelopeVersion = 1

// APIEnvelope wraps successful response bodies. The version field is named
// exactly "v"; clients key their parsers on it.
type APIEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// APIErrorEnvelope wraps error responses that carry a machine-readable code
// and optional details alongside the message.
type APIErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every JSON response body in the versioned
// envelope. Registered as a huma transformer; raw byte bodies (images,
// checklist downloads) never pass through here.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if isErrorStatus(status) {
		return errorEnvelope(v), nil
	}

	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}

func errorEnvelope(v any) any {
	if apiErr, ok := v.(*APIError); ok {
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}
	}

	env := APIEnvelope{Version: EnvelopeVersion, Success: false}
	if err, ok := v.(error); ok {
		env.Error = err.Error()
	}
	return env
}

// isErrorStatus reports whether a huma status string ("200", "404", ...)
// is a client or server error.
func isErrorStatus(status string) bool {
	return len(status) == 3 && (status[0] == '4' || status[0] == '5')
}
