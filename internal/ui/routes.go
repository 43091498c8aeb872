package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func MountRoutes(r chi.Router, h *Handler, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.LoginSubmit)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(h.CookieHeaderBridge)
		// Browsers with no token get the login page, not a JSON 401.
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if h.Auth.Enabled() && req.Header.Get("Authorization") == "" {
					RedirectToLogin(w, req)
					return
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Use(authMiddleware)
		r.Get("/", h.Dashboard)
		r.Get("/mark", h.MarkPage)
		r.Post("/mark", h.MarkSubmit)
		r.Get("/profile", h.ProfilePage)
		r.Post("/profile", h.ProfileSubmit)
	})
}
