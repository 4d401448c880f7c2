package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/nikhil/taskflow/internal/store"
	"github.com/nikhil/taskflow/pkg/utils"
)

// Health reports whether the store answers a transaction.
func Health(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := st.WithTx(ctx, func(store.Tx) error { return nil }); err != nil {
			utils.RespondWithError(w, r, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
