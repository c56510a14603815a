// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/cropconnect/coophub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the account directory under the base path (typically
// "/accounts" from bootstrap). Everything requires an admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeDetail)
		pr.Post("/{id}/status", h.HandleSetStatus)
		pr.Post("/{id}/role", h.HandleSetRole)
	})

	return r
}
