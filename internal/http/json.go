package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/belimuno/workhub/internal/domain/lifecycle"
	apperrors "github.com/belimuno/workhub/internal/errors"
)

// Envelope is the uniform response shape: success plus data for 2xx responses,
// success false plus message (and a machine-readable reason for lifecycle
// denials) otherwise.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteJSON(w, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Invalid JSON request body.",
		})
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the given status code and body.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// WriteData writes a successful response wrapping data in the envelope.
func WriteData(w http.ResponseWriter, code int, data any) {
	WriteJSON(w, code, Envelope{Success: true, Data: data})
}

// WriteError maps an application error to its HTTP status and writes the
// failure envelope. Unrecognized errors are reported as a generic 500 without
// leaking internals.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		WriteJSON(w, http.StatusInternalServerError, Envelope{
			Success: false,
			Message: "An unexpected error occurred.",
		})
		return
	}

	WriteJSON(w, statusFor(appErr), Envelope{
		Success: false,
		Message: appErr.Message,
		Reason:  appErr.Reason,
	})
}

// statusFor maps error codes to HTTP statuses. A denial for being in the wrong
// state is a conflict with current resource state (409); other denials are
// permission problems (403).
func statusFor(appErr *apperrors.AppError) int {
	switch appErr.Code {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeDenied:
		if appErr.Reason == string(lifecycle.ReasonWrongState) {
			return http.StatusConflict
		}
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict, apperrors.ErrCodeForeignKey:
		return http.StatusConflict
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
