package router

import (
	"net/http"
	"strings"

	"logsaas-lite/internal/http-server/handler/file"
	"logsaas-lite/internal/http-server/handler/system"
	"logsaas-lite/internal/http-server/middleware"
	"logsaas-lite/internal/http-server/respond"
	"logsaas-lite/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	FileHandler   *file.FileHandler
	SystemHandler *system.SystemHandler
}

type Options struct {
	CORSOrigin string
	DevMode    bool
}

func SetupRouter(h *Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RecoveryMiddleware(opts.DevMode))

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/dashboard/") {
				middleware.LoggingMiddleware(next).ServeHTTP(w, r)
			} else {
				next.ServeHTTP(w, r)
			}
		})
	})

	r.Use(middleware.SecureHeadersMiddleware(opts.DevMode))
	r.Use(middleware.CORSMiddleware(opts.CORSOrigin))

	r.NotFound(respond.NotFound)
	r.MethodNotAllowed(respond.NotFound)

	r.Get("/health", h.SystemHandler.Health)
	r.Get("/", h.SystemHandler.Root)

	r.Get("/data", h.FileHandler.DashboardData)
	r.Post("/upload", h.FileHandler.Upload)
	r.Get("/files", h.FileHandler.List)
	r.Get("/uploads/{storedName}", h.FileHandler.Serve)

	r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard/", http.StatusMovedPermanently)
	})
	r.Handle("/dashboard/*", http.StripPrefix("/dashboard/", http.FileServer(http.FS(web.Static()))))

	return r
}
