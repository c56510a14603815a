// Command coopscout searches the cooperative directory from a terminal.
//
// It drives the same position-resolution and nearby-search path the mobile
// clients use, with the coordinate supplied by flags instead of device
// hardware:
//
//	coopscout -lat 5.6037 -lng -0.1870
//	coopscout -lat 5.6037 -lng -0.1870 -radius 25000 \
//	    -mongo-uri mongodb://localhost:27017 -db coop_hub
//
// Results print one cooperative per line, nearest first.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	cooperativestore "github.com/cropconnect/coophub/internal/app/store/cooperatives"
	"github.com/cropconnect/coophub/internal/app/system/location"
	"github.com/cropconnect/coophub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

func main() {
	var (
		lat      = flag.Float64("lat", math.NaN(), "latitude of the search origin (required)")
		lng      = flag.Float64("lng", math.NaN(), "longitude of the search origin (required)")
		radius   = flag.Float64("radius", 0, "search radius in meters (0 uses the server default)")
		mongoURI = flag.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
		dbName   = flag.String("db", "coop_hub", "MongoDB database name")
		timeout  = flag.Duration("timeout", 30*time.Second, "overall deadline for the search")
	)
	flag.Parse()

	if math.IsNaN(*lat) || math.IsNaN(*lng) {
		fmt.Fprintln(os.Stderr, "coopscout: -lat and -lng are required")
		flag.Usage()
		os.Exit(2)
	}

	origin := models.GeoCoordinate{Latitude: *lat, Longitude: *lng}
	if !origin.Valid() {
		log.Fatalf("coordinate out of range: latitude must be in [-90, 90], longitude in [-180, 180]")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("mongo ping: %v", err)
	}

	// The flag coordinate stands in for device hardware; Resolve still runs
	// the full permission-and-fix sequence.
	resolver := location.NewResolver(&location.StaticProvider{
		Coordinate: origin,
		Granted:    true,
	}, logger)

	position, err := resolver.Resolve(ctx)
	switch {
	case errors.Is(err, location.ErrPermissionDenied):
		log.Fatalf("location permission denied")
	case errors.Is(err, location.ErrPositionUnavailable):
		log.Fatalf("no position fix available")
	case err != nil:
		log.Fatalf("resolve position: %v", err)
	}

	results, err := cooperativestore.New(client.Database(*dbName)).FindNearby(ctx, position, *radius)
	if err != nil {
		log.Fatalf("nearby search: %v", err)
	}

	shown := *radius
	if shown <= 0 {
		shown = cooperativestore.DefaultRadiusMeters
	}
	fmt.Printf("%d cooperative(s) within %.0f m of (%.5f, %.5f)\n",
		len(results), shown, position.Latitude, position.Longitude)
	for _, r := range results {
		loc := r.Cooperative.Location()
		fmt.Printf("%9.0f m  %-30s  (%.5f, %.5f)\n",
			r.DistanceMeters, r.Cooperative.Name, loc.Latitude, loc.Longitude)
	}
}
