package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// BasicAuth gates requests behind HTTP Basic credentials. The gate fails
// closed: when either expected value is unconfigured, every request is
// rejected. Comparison runs over SHA-256 digests in constant time so the
// response latency does not reveal how much of a guess matched.
func BasicAuth(expectedUser, expectedPass string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || !credentialsMatch(user, pass, expectedUser, expectedPass) {
				w.Header().Set("WWW-Authenticate", `Basic realm="API Access"`)
				writeJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func credentialsMatch(user, pass, expectedUser, expectedPass string) bool {
	if expectedUser == "" || expectedPass == "" {
		return false
	}
	userDigest := sha256.Sum256([]byte(user))
	passDigest := sha256.Sum256([]byte(pass))
	expectedUserDigest := sha256.Sum256([]byte(expectedUser))
	expectedPassDigest := sha256.Sum256([]byte(expectedPass))
	userOK := subtle.ConstantTimeCompare(userDigest[:], expectedUserDigest[:])
	passOK := subtle.ConstantTimeCompare(passDigest[:], expectedPassDigest[:])
	return userOK&passOK == 1
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
