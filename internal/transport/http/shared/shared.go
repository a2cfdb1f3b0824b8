// Package shared holds the JSON response helpers every handler uses.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "gavel/pkg/domain-errors"
)

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errorResponse is the wire envelope for failures.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteError translates a coded domain error into the JSON error envelope.
// Internal errors omit the description so infrastructure details never
// leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		resp.ErrorDescription = dErrors.Description(err)
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}
