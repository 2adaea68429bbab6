package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// slowRequestThreshold is the request duration past which a warning is
// logged. Every store call is a short synchronous SQLite statement, so
// anything slower usually means lock contention.
const slowRequestThreshold = 100 * time.Millisecond

// timed instruments every request uniformly at the interface boundary,
// rather than weaving timing into each handler.
func (s *Server) timed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", elapsed),
		}
		if elapsed > slowRequestThreshold {
			s.log.Warn("slow request", fields...)
		} else {
			s.log.Debug("request", fields...)
		}
	})
}
