// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/cropconnect/coophub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the inbox routes under the base path (typically
// "/notifications" from bootstrap). Everything requires a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/unread-count", h.ServeUnreadCount)
		pr.Post("/read-all", h.HandleReadAll)
		pr.Post("/{id}/read", h.HandleMarkRead)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
