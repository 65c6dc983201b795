package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/club-finance/pkg/logger"
)

const TraceIDHeader = "X-Trace-ID"

// RequestID tags the request logger with a trace id, taken from the caller
// when present, and echoes it back on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)
		w.Header().Set(TraceIDHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
