// internal/app/system/limits/limits.go
package limits

import "net/http"

// Request body size limits. These limits help prevent memory exhaustion from
// oversized requests.
const (
	// MaxJSONBody is the maximum size for JSON request bodies. The largest
	// legitimate payloads are memory entries and profile updates, which stay
	// far below this.
	MaxJSONBody = 1 << 20 // 1 MB
)

// RequestSize is middleware that caps the request body at n bytes. Reads past
// the cap fail, which surfaces as a decode error in the handler.
func RequestSize(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
