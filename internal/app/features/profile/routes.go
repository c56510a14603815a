// internal/app/features/profile/routes.go
package profile

import (
	"github.com/cropconnect/coophub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the profile routes under the base path (typically
// "/profile" from bootstrap). Everything requires a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeProfile)
		pr.Put("/", h.HandleUpdateName)
		pr.Post("/password", h.HandleChangePassword)
		pr.Get("/logins", h.ServeLogins)
	})

	return r
}
