package middleware

import (
	"log"
	"net/http"

	"storefront-service/backend"
	"storefront-service/helper"
)

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[http] panic on %s %s (cid=%s): %v",
					r.Method, r.URL.Path, backend.CorrelationIDFrom(r.Context()), rec)
				helper.WriteErrorJSON(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
