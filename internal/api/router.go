package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	r.Handle("/metrics", promhttp.Handler())

	// Uploaded profile pictures are served as static files.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(apiHandler.uploadDir))))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", apiHandler.RegisterHandler)
		r.Post("/login", apiHandler.LoginHandler)
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"OK"}`))
		})
		r.Get("/feedback", apiHandler.ListFeedbackHandler)
		r.Post("/enquiry", apiHandler.EnquiryHandler)

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			r.Post("/diagnose", apiHandler.DiagnoseHandler)
			r.Get("/users/history", apiHandler.HistoryHandler)

			r.Get("/profile/{userID}", apiHandler.GetProfileHandler)
			r.Put("/profile/{userID}", apiHandler.UpdateProfileHandler)
			r.Put("/users/{userID}/password", apiHandler.ChangePasswordHandler)
			r.Put("/users/{userID}/picture", apiHandler.UploadPictureHandler)

			r.Post("/feedback", apiHandler.SubmitFeedbackHandler)
		})
	})

	return r
}
