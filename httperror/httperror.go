// Package httperror simplifies returning an error as JSON from an HTTP handler
package httperror

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/rs/zerolog/log"
)

type jsonError struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Send writes err as a JSON body with the given status and logs it. YNAB API
// errors carry their detail through.
func Send(w http.ResponseWriter, req *http.Request, status int, err error) {
	m := jsonError{Error: http.StatusText(status), Status: status}
	if err != nil {
		m.Error = err.Error()
		var apiErr *ynab.APIError
		if errors.As(err, &apiErr) {
			m.Detail = apiErr.Detail
		}
	}

	log.Error().Err(err).Str("path", req.URL.Path).Int("status", status).Msg("Request failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(m)
}
