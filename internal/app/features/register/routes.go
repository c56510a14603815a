// internal/app/features/register/routes.go
package register

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter that serves the registration endpoint.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleRegister) // mounted under /register
	return r
}
