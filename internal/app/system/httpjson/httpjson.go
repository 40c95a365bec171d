// internal/app/system/httpjson/httpjson.go
//
// Package httpjson is the JSON rendering layer for the API. Every
// failure carries an explicit error code so clients can distinguish
// "fetch failed" from "fetch returned nothing" instead of collapsing
// both into an empty collection.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error codes returned in the error envelope.
const (
	CodeValidation   = "validation"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeInternal     = "internal"
)

// maxBodyBytes bounds request bodies; no endpoint accepts payloads
// anywhere near this size except file saves.
const maxBodyBytes = 4 << 20

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// Respond writes v as JSON with the given status code.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the error envelope with the given status, code, and message.
func Error(w http.ResponseWriter, status int, code, message string) {
	Respond(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// ValidationError writes a 422 validation failure.
func ValidationError(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnprocessableEntity, CodeValidation, message)
}

// Unauthorized writes a 401 for requests without a valid session.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
}

// Forbidden writes a 403 with the given message.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, CodeForbidden, message)
}

// NotFound writes a 404 with the given message.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, CodeNotFound, message)
}

// Conflict writes a 409 with the given message.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, CodeConflict, message)
}

// Internal writes a 500. The underlying error is logged by the caller,
// never surfaced to the client.
func Internal(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, CodeInternal, "an internal error occurred")
}

// Decode reads the request body into dst, enforcing a size limit.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.New("request body must be valid JSON")
	}
	return nil
}
