package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"alumniport/internal/handlers"
	"alumniport/internal/middleware"
)

func RegisterRouter(h *handlers.Handler, adminSecret []byte, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.LoggingMiddleware(logger))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(adminSecret))
		r.Post("/api/admin/image-extraction/extract", h.ExtractImage)
		r.Post("/api/admin/alumni-migration/convert", h.ConvertEntries)
		r.Get("/api/admin/auth/me", h.AuthMe)
		r.Get("/api/admin/registration/{id}/qrcode", h.RegistrationQRCode)
	})
	return r
}
