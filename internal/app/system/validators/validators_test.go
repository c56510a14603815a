package validators_test

import (
	"testing"
	"time"

	"github.com/cropconnect/coophub/internal/app/system/validators"
	"github.com/cropconnect/coophub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// First call
	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	err = validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Verify collections exist
	expectedCollections := []string{
		"users",
		"cooperatives",
		"notifications",
		"login_records",
		"oauth_states",
		"audit_events",
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}

	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}

	for _, expected := range expectedCollections {
		if !collMap[expected] {
			t.Errorf("expected collection %q to exist", expected)
		}
	}
}

func TestUsersValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Try to insert user without required fields - should fail
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"login_id": "test",
	})
	if err == nil {
		t.Error("expected validation error when inserting user without required fields")
	}
}

func TestUsersValidator_ValidUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Insert valid user - should succeed
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"full_name":    "Test User",
		"full_name_ci": "test user",
		"login_id":     "testuser",
		"login_id_ci":  "testuser",
		"role":         "farmer",
		"status":       "active",
		"auth_method":  "password",
	})
	if err != nil {
		t.Errorf("Insert valid user failed: %v", err)
	}
}

func TestUsersValidator_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Try to insert user with invalid role - should fail
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"full_name":    "Test User",
		"full_name_ci": "test user",
		"role":         "analyst",
		"status":       "active",
		"auth_method":  "password",
	})
	if err == nil {
		t.Error("expected validation error when inserting user with invalid role")
	}
}

func TestUsersValidator_InvalidStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Try to insert user with invalid status - should fail
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"full_name":    "Test User",
		"full_name_ci": "test user",
		"role":         "farmer",
		"status":       "archived",
		"auth_method":  "password",
	})
	if err == nil {
		t.Error("expected validation error when inserting user with invalid status")
	}
}

func TestUsersValidator_InvalidAuthMethod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Try to insert user with invalid auth method - should fail
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"full_name":    "Test User",
		"full_name_ci": "test user",
		"role":         "farmer",
		"status":       "active",
		"auth_method":  "classlink",
	})
	if err == nil {
		t.Error("expected validation error when inserting user with invalid auth_method")
	}
}

func TestUsersValidator_AllValidRolesAndAuthMethods(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	cases := []struct {
		role string
		auth string
	}{
		{"farmer", "password"},
		{"farmer", "google"},
		{"admin", "password"},
		{"admin", "google"},
	}

	for i, tc := range cases {
		loginID := "user_" + tc.role + "_" + tc.auth
		_, err = db.Collection("users").InsertOne(ctx, bson.M{
			"full_name":    "Test User",
			"full_name_ci": "test user",
			"login_id":     loginID,
			"login_id_ci":  loginID,
			"role":         tc.role,
			"status":       "active",
			"auth_method":  tc.auth,
		})
		if err != nil {
			t.Errorf("case %d (%s/%s): insert failed: %v", i, tc.role, tc.auth, err)
		}
	}
}

func TestCooperativesValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Missing coordinates and creator - should fail
	_, err = db.Collection("cooperatives").InsertOne(ctx, bson.M{
		"name":    "Sunrise Growers",
		"name_ci": "sunrise growers",
	})
	if err == nil {
		t.Error("expected validation error when inserting cooperative without required fields")
	}
}

func TestCooperativesValidator_ValidCooperative(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err = db.Collection("cooperatives").InsertOne(ctx, bson.M{
		"name":       "Sunrise Growers",
		"name_ci":    "sunrise growers",
		"latitude":   5.6037,
		"longitude":  -0.187,
		"created_by": primitive.NewObjectID(),
	})
	if err != nil {
		t.Errorf("Insert valid cooperative failed: %v", err)
	}
}

func TestCooperativesValidator_LatitudeOutOfRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err = db.Collection("cooperatives").InsertOne(ctx, bson.M{
		"name":       "North Pole Growers",
		"name_ci":    "north pole growers",
		"latitude":   91.0,
		"longitude":  0.0,
		"created_by": primitive.NewObjectID(),
	})
	if err == nil {
		t.Error("expected validation error for latitude > 90")
	}
}

func TestCooperativesValidator_JoinRequestStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	base := bson.M{
		"name":       "Sunrise Growers",
		"name_ci":    "sunrise growers",
		"latitude":   5.6037,
		"longitude":  -0.187,
		"created_by": primitive.NewObjectID(),
	}

	// Valid embedded join request - should succeed
	base["join_requests"] = bson.A{bson.M{
		"user_id":      primitive.NewObjectID(),
		"user_name":    "Ama Mensah",
		"requested_at": time.Now(),
		"status":       "pending",
	}}
	if _, err = db.Collection("cooperatives").InsertOne(ctx, base); err != nil {
		t.Errorf("Insert cooperative with pending request failed: %v", err)
	}

	// Unknown request status - should fail
	base["name_ci"] = "sunrise growers 2"
	base["join_requests"] = bson.A{bson.M{
		"user_id": primitive.NewObjectID(),
		"status":  "maybe",
	}}
	if _, err = db.Collection("cooperatives").InsertOne(ctx, base); err == nil {
		t.Error("expected validation error for unknown join request status")
	}
}

func TestNotificationsValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Missing user_id and created_at - should fail
	_, err = db.Collection("notifications").InsertOne(ctx, bson.M{
		"type": "general_message",
	})
	if err == nil {
		t.Error("expected validation error when inserting notification without required fields")
	}

	// A type this deployment has never heard of is still accepted: the
	// reader degrades unknown kinds rather than the writer rejecting them.
	_, err = db.Collection("notifications").InsertOne(ctx, bson.M{
		"user_id":    primitive.NewObjectID(),
		"type":       "shipment_delayed",
		"title":      "Delivery update",
		"created_at": time.Now(),
	})
	if err != nil {
		t.Errorf("Insert notification with unknown type failed: %v", err)
	}
}

func TestLoginRecords_NoValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// login_records has no validator, so any document should be accepted
	_, err = db.Collection("login_records").InsertOne(ctx, bson.M{
		"any_field": "any_value",
	})
	if err != nil {
		t.Errorf("Insert to login_records should succeed (no validator): %v", err)
	}
}
