package preview

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/kirlent/internal/logfields"
)

// requestLogger logs every request at debug level; the live reload stream
// is logged when it closes.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Debug("request",
				logfields.Method(r.Method),
				logfields.Path(r.URL.Path),
				logfields.Status(status),
				logfields.RequestID(middleware.GetReqID(r.Context())),
				logfields.Elapsed(time.Since(start)),
			)
		})
	}
}
