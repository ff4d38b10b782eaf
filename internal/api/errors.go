package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/qmap/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code    `json:"code"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidArch, errors.ErrCodeInvalidCircuit,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidOption, errors.ErrCodeInvalidName,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupportedMultiDependency, errors.ErrCodeNonMonotonicMapping,
		errors.ErrCodeUnreachableMapping, errors.ErrCodeInsufficientMappings,
		errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	detail := errorDetail{Code: code, Message: errors.UserMessage(err)}
	if code == "" {
		detail.Code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		detail.Message = "internal error"
	}
	var e *errors.Error
	if stderrors.As(err, &e) && len(e.Fields) > 0 {
		detail.Fields = make(map[string]any, len(e.Fields))
		for _, f := range e.Fields {
			detail.Fields[f.Key] = f.Value
		}
	}
	writeJSON(w, status, errorBody{Error: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
