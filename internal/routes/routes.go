package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spamlookup/spamlookup-backend/internal/handlers"
	"github.com/spamlookup/spamlookup-backend/internal/middleware"
)

// SetupRoutes mounts the API. Each endpoint group carries its throttle
// policy; enforceThrottles controls whether over-limit requests are rejected
// or only counted.
func SetupRoutes(r chi.Router, h *handlers.Handler, enforceThrottles bool) {
	throttled := func(p middleware.ThrottlePolicy) func(http.Handler) http.Handler {
		return middleware.Throttle(p, h.Sessions, enforceThrottles)
	}

	// Auth routes
	r.With(throttled(middleware.RegisterThrottle)).Post("/api/register/", h.Register)
	r.With(throttled(middleware.LoginThrottle)).Post("/api/login/", h.Login)
	r.With(throttled(middleware.LogoutThrottle)).Post("/api/logout/", h.Logout)

	// Contact routes
	r.Group(func(r chi.Router) {
		r.Use(throttled(middleware.ContactThrottle))
		r.Get("/api/contacts/", h.ListContacts)
		r.Post("/api/contacts/", h.CreateContact)
		r.Get("/api/contacts/{contactID}/", h.GetContact)
		r.Put("/api/contacts/{contactID}/", h.UpdateContact)
		r.Delete("/api/contacts/{contactID}/", h.DeleteContact)
	})

	// Spam reporting
	r.With(throttled(middleware.ReportSpamThrottle)).Post("/api/report-spam/", h.ReportSpam)

	// Search
	r.With(throttled(middleware.SearchThrottle)).Get("/api/search/", h.Search)
}
