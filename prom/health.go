package prom

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/helpcomp/ynab-tui/httperror"
	"github.com/helpcomp/ynab-tui/ynab"
)

type Pinger interface {
	User(ctx context.Context) (ynab.User, error)
}

// HealthHandler answers 200 when the API token works and 503 otherwise.
func HealthHandler(p Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if _, err := p.User(ctx); err != nil {
			httperror.Send(w, r, http.StatusServiceUnavailable, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
}
