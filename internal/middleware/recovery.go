package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Recovery creates panic-recovery middleware. Panics are logged server-side
// and surface as a generic JSON 500 without internal detail.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic_recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					if encodeErr := json.NewEncoder(w).Encode(map[string]string{
						"error": "An unexpected error occurred",
					}); encodeErr != nil {
						logger.Error("failed_to_encode_error_response", zap.Error(encodeErr))
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
