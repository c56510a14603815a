// internal/app/store/cooperatives/nearby.go
package cooperativestore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cropconnect/coophub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// DefaultRadiusMeters bounds a nearby search when the caller does not give
// an explicit radius.
const DefaultRadiusMeters = 10000.0

// ErrDirectoryUnavailable wraps any read failure during a nearby search so
// callers can distinguish "the directory could not be read" from "nothing
// is nearby". There is no retry at this layer.
var ErrDirectoryUnavailable = errors.New("cooperative directory unavailable")

// Nearby pairs a cooperative with its computed distance from the search
// origin.
type Nearby struct {
	Cooperative    models.Cooperative `json:"cooperative"`
	DistanceMeters float64            `json:"distance_meters"`
}

// FindNearby scans the full directory, computes the great-circle distance
// from origin to each cooperative, and returns those within radiusMeters
// ordered by ascending distance. The sort is stable, so equidistant
// cooperatives keep collection read order and repeated searches over
// unchanged data return identical orderings. A cooperative exactly on the
// radius is included.
//
// radiusMeters <= 0 selects DefaultRadiusMeters. An empty result is a
// normal outcome, not an error.
func (s *Store) FindNearby(ctx context.Context, origin models.GeoCoordinate, radiusMeters float64) ([]Nearby, error) {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}

	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	defer cur.Close(ctx)

	var coops []models.Cooperative
	if err := cur.All(ctx, &coops); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	results := make([]Nearby, 0, len(coops))
	for _, coop := range coops {
		d := origin.DistanceMeters(coop.Location())
		if d <= radiusMeters {
			results = append(results, Nearby{Cooperative: coop, DistanceMeters: d})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})
	return results, nil
}
