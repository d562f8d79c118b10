package handlers

import (
	"crypto/subtle"
	"net/http"
)

const (
	notConfiguredMessage = "Not configured"
	badTokenMessage      = "You did wrong."
)

// RequireToken only lets requests through whose "token" query or form value equals token.
// With no token configured every request is answered with 404.
func RequireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				http.Error(w, notConfiguredMessage, http.StatusNotFound)
				return
			}

			given := r.FormValue("token")
			if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
				http.Error(w, badTokenMessage, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
