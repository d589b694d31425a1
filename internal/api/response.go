// Crateseek - Similar-Artist Discovery and Playlist Clip Assembly
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crateseek

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/crateseek/internal/logging"
)

// apiError is the error body of an error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// envelope wraps every JSON response.
type envelope struct {
	Data  any       `json:"data,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

// respondJSON writes data inside the success envelope.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: data}); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError writes an error envelope with a machine-readable code.
func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Error: &apiError{Code: code, Message: message}}); err != nil {
		logging.Error().Err(err).Msg("failed to encode error response")
	}
}
