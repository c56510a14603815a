package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cropconnect/coophub/internal/app/system/authutil"
	"github.com/cropconnect/coophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name, login ID, and role.
// Returns the created user with its generated ID.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, loginID, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		LoginID:    loginID,
		LoginIDCI:  text.Fold(loginID),
		AuthMethod: "password",
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateFarmer creates a test user with the farmer role.
func (f *Fixtures) CreateFarmer(ctx context.Context, fullName, loginID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, loginID, "farmer")
}

// CreateUserWithPassword creates a farmer whose password is set to the
// given plaintext, hashed the same way registration hashes it.
func (f *Fixtures) CreateUserWithPassword(ctx context.Context, fullName, loginID, password string) models.User {
	f.t.Helper()

	user := f.CreateUser(ctx, fullName, loginID, "farmer")

	hash, err := authutil.HashPassword(password)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}
	_, err = f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"hashed_password": hash}})
	if err != nil {
		f.t.Fatalf("failed to set test password: %v", err)
	}
	user.HashedPassword = hash
	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, loginID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, loginID, "admin")
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, loginID string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		LoginID:    loginID,
		LoginIDCI:  text.Fold(loginID),
		AuthMethod: "password",
		Role:       "farmer",
		Status:     "disabled",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create disabled test user: %v", err)
	}

	return user
}

// CreateCooperative creates a test cooperative at the given coordinates,
// owned by createdBy, with an empty join request list.
func (f *Fixtures) CreateCooperative(ctx context.Context, name string, lat, lng float64, createdBy primitive.ObjectID) models.Cooperative {
	f.t.Helper()

	now := time.Now().UTC()
	coop := models.Cooperative{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Latitude:     lat,
		Longitude:    lng,
		CreatedBy:    createdBy,
		JoinRequests: []models.JoinRequest{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("cooperatives").InsertOne(ctx, coop)
	if err != nil {
		f.t.Fatalf("failed to create test cooperative: %v", err)
	}

	return coop
}

// CreatePendingRequest appends a pending join request from user to the
// cooperative, bypassing the store so tests can stage arbitrary state.
func (f *Fixtures) CreatePendingRequest(ctx context.Context, coopID primitive.ObjectID, user models.User) models.JoinRequest {
	f.t.Helper()

	jr := models.JoinRequest{
		UserID:      user.ID,
		UserName:    user.FullName,
		RequestedAt: time.Now().UTC(),
		Status:      models.JoinStatusPending,
	}

	_, err := f.db.Collection("cooperatives").UpdateOne(ctx,
		bson.M{"_id": coopID},
		bson.M{"$push": bson.M{"join_requests": jr}},
	)
	if err != nil {
		f.t.Fatalf("failed to create pending join request: %v", err)
	}

	return jr
}

// CreateNotification inserts a notification for userID and returns it.
// coopID may be nil for general messages.
func (f *Fixtures) CreateNotification(ctx context.Context, userID primitive.ObjectID, typ models.NotificationType, title, message string, coopID *primitive.ObjectID) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		Type:          typ,
		Title:         title,
		Message:       message,
		CooperativeID: coopID,
		CreatedAt:     time.Now().UTC(),
		Action:        models.ActionNone,
	}

	_, err := f.db.Collection("notifications").InsertOne(ctx, n)
	if err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}

	return n
}
