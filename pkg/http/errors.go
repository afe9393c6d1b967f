package http

import (
	"encoding/json"
	"net/http"
)

// Error codes carried in ErrorResponse.Error.
const (
	CodeBadRequest      = "bad_request"
	CodeInvalidSort     = "invalid_sort"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeAlreadyReported = "already_reported"
	CodeRateLimited     = "rate_limit_exceeded"
	CodeInternal        = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// WriteJSON encodes v as the response body.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	WriteErrorWithDetails(w, statusCode, errorCode, message, "")
}

func WriteErrorWithDetails(w http.ResponseWriter, statusCode int, errorCode, message, details string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: errorCode, Message: message, Details: details})
}

// Catalog and role responses.

// WriteAlreadyReported answers a create for a name that already exists;
// clients treat it as satisfied.
func WriteAlreadyReported(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusAlreadyReported, CodeAlreadyReported, message)
}

// WriteInvalidSort rejects a sort key outside the orderable item fields.
func WriteInvalidSort(w http.ResponseWriter, details string) {
	WriteErrorWithDetails(w, http.StatusBadRequest, CodeInvalidSort, "Invalid sort field", details)
}

// WriteInvalidRequest is a 400 whose details carry the parser or validator output.
func WriteInvalidRequest(w http.ResponseWriter, message, details string) {
	WriteErrorWithDetails(w, http.StatusBadRequest, CodeBadRequest, message, details)
}

func WriteTooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, CodeRateLimited, message)
}

// Generic status responses.

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, CodeForbidden, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, CodeConflict, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternal, message)
}
