package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go-admin-console/internal/model"
)

type requestLogRecorder interface {
	Record(entry model.RequestLog)
}

// RequestLog persists one row per API request through the recorder, which
// writes asynchronously so a slow store never blocks the response path.
func RequestLog(recorder requestLogRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			entry := model.RequestLog{
				Method:     r.Method,
				Path:       r.URL.Path,
				Status:     wrapped.status,
				DurationMS: time.Since(started).Milliseconds(),
				ClientIP:   extractClientIP(r),
				Platform:   PlatformFromPath(r.URL.Path),
				OccurredAt: started.UTC().Format(time.RFC3339Nano),
			}

			if claims, ok := ClaimsFromContext(r.Context()); ok {
				entry.Account = claims.Account
			}

			if wrapped.status >= 400 && wrapped.body.Len() > 0 {
				var parsed errorBody
				if err := json.Unmarshal(wrapped.body.Bytes(), &parsed); err == nil {
					entry.ErrorCode = parsed.Code
				}
			}

			recorder.Record(entry)
		})
	}
}
