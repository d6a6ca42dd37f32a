package respond

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/siteoptz/siteoptz/internal/apperr"
)

const maxBodyBytes = 1 << 20

// Envelope is the body every lead-capture endpoint answers with.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// Error writes an error envelope, using apperr status codes when available.
func Error(w http.ResponseWriter, err error) {
	if appErr, ok := apperr.As(err); ok {
		if appErr.Code >= http.StatusInternalServerError {
			log.Printf("request failed: %v", appErr)
		}
		JSON(w, appErr.Code, Envelope{Success: false, Message: appErr.Message, Error: appErr.Message})
		return
	}
	log.Printf("unhandled error: %v", err)
	JSON(w, http.StatusInternalServerError, Envelope{
		Success: false,
		Message: "Something went wrong. Please try again later.",
		Error:   "internal server error",
	})
}

// DecodeJSON decodes a JSON request body into v. Unknown fields are ignored.
func DecodeJSON(r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.BadRequest("request body too large")
		}
		if errors.Is(err, io.EOF) {
			return apperr.BadRequest("request body is empty")
		}
		return apperr.BadRequest("invalid JSON body")
	}
	return nil
}

// MethodNotAllowed answers non-POST calls to the form endpoints.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	JSON(w, http.StatusMethodNotAllowed, Envelope{
		Success: false,
		Message: "Method not allowed",
		Error:   "Method not allowed. Use POST.",
	})
}
