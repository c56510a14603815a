// internal/app/features/cooperatives/routes.go
package cooperatives

import (
	"github.com/cropconnect/coophub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all cooperative routes under the base path (typically
// "/cooperatives" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Directory reads are public; the join flow is what needs an identity.
	r.Get("/nearby", h.ServeNearby)
	r.Get("/{id}", h.ServeGet)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// CREATE
		pr.Post("/", h.HandleCreate)

		// JOIN (dedup'd, atomic with the owner notification)
		pr.Post("/{id}/join", h.HandleJoin)

		// Owner-only: edits, deletion, pending requests, invitations.
		// Ownership is checked in the handlers because it depends on the
		// document.
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Get("/{id}/requests", h.ServeRequests)
		pr.Post("/{id}/invite", h.HandleInvite)
	})

	return r
}
