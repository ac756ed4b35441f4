package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "handover/pkg/domain-errors"
)

// errorResponse is the uniform JSON error body for all API endpoints.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// WriteError maps a domain error to its HTTP status and writes the uniform
// error body. Internal details stay in the logs; the client sees only the
// code and message.
func WriteError(w http.ResponseWriter, logger *slog.Logger, requestID string, err error) {
	status := dErrors.StatusOf(err)

	var domainErr *dErrors.Error
	code := "internal_error"
	message := "An internal error occurred"
	if errors.As(err, &domainErr) && status < http.StatusInternalServerError {
		code = string(domainErr.Code)
		message = domainErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(errorResponse{
		Error:            code,
		ErrorDescription: message,
	}); encodeErr != nil {
		logger.Error("failed to write error response",
			"error", encodeErr,
			"request_id", requestID,
		)
	}
}
