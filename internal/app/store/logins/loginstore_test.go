package loginstore_test

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"net/http/httptest"
	"testing"
	"time"

	loginstore "github.com/cropconnect/coophub/internal/app/store/logins"
	"github.com/cropconnect/coophub/internal/domain/models"
	"github.com/cropconnect/coophub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	rec := models.LoginRecord{
		UserID:  userID,
		LoginID: "ana@example.com",
		IP:      "192.168.1.1",
		Method:  "password",
	}

	err := store.Create(ctx, rec)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Verify the record was inserted
	var found models.LoginRecord
	err = db.Collection("login_records").FindOne(ctx, bson.M{"user_id": userID}).Decode(&found)
	if err != nil {
		t.Fatalf("failed to find login record: %v", err)
	}

	if found.UserID != userID {
		t.Errorf("UserID: got %v, want %v", found.UserID, userID)
	}
	if found.IP != "192.168.1.1" {
		t.Errorf("IP: got %q, want %q", found.IP, "192.168.1.1")
	}
	if found.Method != "password" {
		t.Errorf("Method: got %q, want %q", found.Method, "password")
	}
	// At should be set automatically
	if found.At.IsZero() {
		t.Error("expected At to be set")
	}
}

func TestStore_Create_WithExplicitTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	customTime := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	rec := models.LoginRecord{
		UserID:  userID,
		LoginID: "ana@example.com",
		At:      customTime,
		IP:      "10.0.0.1",
		Method:  "google",
	}

	err := store.Create(ctx, rec)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Verify the record preserves the explicit timestamp
	var found models.LoginRecord
	err = db.Collection("login_records").FindOne(ctx, bson.M{"user_id": userID}).Decode(&found)
	if err != nil {
		t.Fatalf("failed to find login record: %v", err)
	}

	if !found.At.Equal(customTime) {
		t.Errorf("At: got %v, want %v", found.At, customTime)
	}
}

func TestStore_CreateFrom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	req := httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	req.Header.Set("User-Agent", "field-app/2.1")

	if err := store.CreateFrom(ctx, req, userID, "ana@example.com", "password"); err != nil {
		t.Fatalf("CreateFrom failed: %v", err)
	}

	var found models.LoginRecord
	err := db.Collection("login_records").FindOne(ctx, bson.M{"user_id": userID}).Decode(&found)
	if err != nil {
		t.Fatalf("failed to find login record: %v", err)
	}

	// First XFF entry wins over the socket address.
	if found.IP != "203.0.113.7" {
		t.Errorf("IP: got %q, want %q", found.IP, "203.0.113.7")
	}
	if found.UserAgent != "field-app/2.1" {
		t.Errorf("UserAgent: got %q, want %q", found.UserAgent, "field-app/2.1")
	}
	if found.LoginID != "ana@example.com" {
		t.Errorf("LoginID: got %q", found.LoginID)
	}
}

func TestStore_RecentByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := store.Create(ctx, models.LoginRecord{
			UserID:  userID,
			LoginID: "ana@example.com",
			Method:  "password",
			At:      base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}
	if err := store.Create(ctx, models.LoginRecord{UserID: other, LoginID: "x@example.com", Method: "password"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	recs, err := store.RecentByUser(ctx, userID, 2)
	if err != nil {
		t.Fatalf("RecentByUser failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if !recs[0].At.After(recs[1].At) {
		t.Errorf("records should be newest first: %v then %v", recs[0].At, recs[1].At)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		realIP string
		remote string
		want   string
	}{
		{name: "xff single", xff: "203.0.113.7", remote: "10.0.0.1:1234", want: "203.0.113.7"},
		{name: "xff list takes first", xff: "203.0.113.7, 70.41.3.18", remote: "10.0.0.1:1234", want: "203.0.113.7"},
		{name: "x-real-ip fallback", realIP: "198.51.100.9", remote: "10.0.0.1:1234", want: "198.51.100.9"},
		{name: "remote addr fallback", remote: "192.0.2.4:5678", want: "192.0.2.4"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}

			if got := loginstore.ClientIP(req); got != tc.want {
				t.Errorf("ClientIP: got %q, want %q", got, tc.want)
			}
		})
	}
}
