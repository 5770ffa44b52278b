package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"storefront-service/backend"
)

// CorrelationID reuses the caller's X-Correlation-Id or mints one, echoes it back and
// hands it to the backend client through the request context.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(backend.HeaderCorrelationID)
		if cid == "" {
			cid = uuid.NewString()
		}

		w.Header().Set(backend.HeaderCorrelationID, cid)
		next.ServeHTTP(w, r.WithContext(backend.WithCorrelationID(r.Context(), cid)))
	})
}
