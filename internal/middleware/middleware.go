package middleware

import (
	"net/http"
	"os"
	"strings"
)

// defaultOrigins are the dev frontends; production origins come from the
// ALLOWED_ORIGINS env var (comma-separated).
var defaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:8501",
}

func allowedOrigins() map[string]struct{} {
	allowed := make(map[string]struct{})
	for _, o := range defaultOrigins {
		allowed[o] = struct{}{}
	}
	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = struct{}{}
		}
	}
	return allowed
}

// CORSMiddleware echoes the origin back only if it's on the allow-list.
func CORSMiddleware(next http.Handler) http.Handler {
	allowed := allowedOrigins()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin") // important for caches
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
