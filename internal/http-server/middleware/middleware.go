package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"logsaas-lite/internal/http-server/respond"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/unrolled/secure"
	"github.com/wb-go/wbf/zlog"
)

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		zlog.Logger.Info().
			Str("method", r.Method).
			Str("url", r.URL.RequestURI()).
			Str("user_agent", r.UserAgent()).
			Str("ip", r.RemoteAddr).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("Request started")

		next.ServeHTTP(ww, r)

		zlog.Logger.Info().
			Str("method", r.Method).
			Str("url", r.URL.RequestURI()).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
	})
}

// RecoveryMiddleware turns a handler panic into a 500 envelope. The panic
// value is only exposed to the client in development.
func RecoveryMiddleware(devMode bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				zlog.Logger.Error().
					Interface("error", rec).
					Str("stack", string(debug.Stack())).
					Str("method", r.Method).
					Str("url", r.URL.RequestURI()).
					Msg("Panic recovered")

				message := "Something went wrong"
				if devMode {
					message = fmt.Sprint(rec)
				}
				respond.Error(w, http.StatusInternalServerError, "Internal Server Error", message, "")
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func CORSMiddleware(origin string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

func SecureHeadersMiddleware(devMode bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
		IsDevelopment:      devMode,
	}).Handler
}
