// internal/app/features/cooperatives/get.go
package cooperatives

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /cooperatives/{id}                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid cooperative id", err, "Invalid cooperative ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	coop, err := h.Coops.GetByID(ctx, id)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		h.ErrLog.LogNotFound(w, r, "cooperative not found", nil, "Cooperative not found.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find cooperative", err, "A server error occurred.")
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, coop)
}
