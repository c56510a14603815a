// internal/app/features/cooperatives/nearby.go
package cooperatives

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	cooperativestore "github.com/cropconnect/coophub/internal/app/store/cooperatives"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/cropconnect/coophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// nearbyResponse carries the ordered search results back to the client.
type nearbyResponse struct {
	Origin       models.GeoCoordinate      `json:"origin"`
	RadiusMeters float64                   `json:"radius_meters"`
	Count        int                       `json:"count"`
	Results      []cooperativestore.Nearby `json:"results"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /cooperatives/nearby?lat=&lng=&radius=                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeNearby lists cooperatives within radius meters of (lat, lng),
// closest first. radius is optional and defaults from configuration.
func (h *Handler) ServeNearby(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(query.Get(r, "lat"), 64)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "nearby missing lat", err, "Query parameter lat is required.")
		return
	}
	lng, err := strconv.ParseFloat(query.Get(r, "lng"), 64)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "nearby missing lng", err, "Query parameter lng is required.")
		return
	}

	origin := models.GeoCoordinate{Latitude: lat, Longitude: lng}
	if !origin.Valid() {
		h.ErrLog.LogBadRequest(w, r, "nearby coordinates out of range", nil,
			"Latitude must be in [-90, 90] and longitude in [-180, 180].")
		return
	}

	radius := h.DefaultRadiusMeters
	if raw := query.Get(r, "radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			h.ErrLog.LogBadRequest(w, r, "nearby invalid radius", err,
				"radius must be a positive number of meters.")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	results, err := h.Coops.FindNearby(ctx, origin, radius)
	if err != nil {
		if errors.Is(err, cooperativestore.ErrDirectoryUnavailable) {
			h.ErrLog.LogBadGateway(w, r, "directory read failed", err,
				"The cooperative directory is unavailable. Please try again.")
			return
		}
		h.ErrLog.LogServerError(w, r, "DB nearby search", err, "A server error occurred.")
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, nearbyResponse{
		Origin:       origin,
		RadiusMeters: radius,
		Count:        len(results),
		Results:      results,
	})
}
