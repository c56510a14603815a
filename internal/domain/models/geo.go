// internal/domain/models/geo.go
package models

import "math"

// GeoCoordinate is a WGS 84 latitude/longitude pair in decimal degrees.
// It is an immutable value; methods never mutate the receiver.
type GeoCoordinate struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// earthRadiusMeters is the mean earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// Valid reports whether the coordinate lies in the WGS 84 range:
// latitude in [-90, 90] and longitude in [-180, 180].
func (g GeoCoordinate) Valid() bool {
	return g.Latitude >= -90 && g.Latitude <= 90 &&
		g.Longitude >= -180 && g.Longitude <= 180
}

// DistanceMeters returns the great-circle distance to o in meters, computed
// with the haversine formula on a spherical earth. The spherical
// approximation is accurate to well under 0.5% for intra-city distances,
// which is all the nearby-cooperative search needs.
func (g GeoCoordinate) DistanceMeters(o GeoCoordinate) float64 {
	lat1 := g.Latitude * math.Pi / 180
	lat2 := o.Latitude * math.Pi / 180
	dLat := (o.Latitude - g.Latitude) * math.Pi / 180
	dLon := (o.Longitude - g.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
