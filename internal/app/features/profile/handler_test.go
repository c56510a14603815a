package profile_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/features/profile"
	userstore "github.com/cropconnect/coophub/internal/app/store/users"
	"github.com/cropconnect/coophub/internal/app/system/authutil"
	"github.com/cropconnect/coophub/internal/domain/models"
	"github.com/cropconnect/coophub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *profile.Handler {
	t.Helper()
	logger := zap.NewNop()
	return profile.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
}

func asTestUser(u models.User) testutil.TestUser {
	return testutil.TestUser{
		ID:      u.ID.Hex(),
		Name:    u.FullName,
		LoginID: u.LoginID,
		Role:    u.Role,
	}
}

// makeGoogleUser flips a fixture user to Google sign-in with no stored hash.
func makeGoogleUser(t *testing.T, db *mongo.Database, u models.User) models.User {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": u.ID},
		bson.M{
			"$set":   bson.M{"auth_method": "google", "google_id": "sub-" + u.ID.Hex()},
			"$unset": bson.M{"hashed_password": ""},
		})
	if err != nil {
		t.Fatalf("convert user to google auth: %v", err)
	}
	u.AuthMethod = "google"
	u.HashedPassword = ""
	return u
}

/*── view ────────────────────────────────────────────────────────────────────*/

func TestServeProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUserWithPassword(ctx, "Ama Mensah", "ama@example.com", "harvest-moon-7")

	req := testutil.WithUser(testutil.NewRequest("GET", "/profile"), asTestUser(user))
	rec := testutil.NewRecorder()
	handler.ServeProfile(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	var got struct {
		ID         string `json:"id"`
		FullName   string `json:"full_name"`
		LoginID    string `json:"login_id"`
		AuthMethod string `json:"auth_method"`
		Role       string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != user.ID.Hex() {
		t.Errorf("id = %q, want %q", got.ID, user.ID.Hex())
	}
	if got.FullName != "Ama Mensah" || got.LoginID != "ama@example.com" {
		t.Errorf("identity = %q / %q, want Ama Mensah / ama@example.com", got.FullName, got.LoginID)
	}
	if got.AuthMethod != "password" {
		t.Errorf("auth_method = %q, want password", got.AuthMethod)
	}
	if got.Role != "farmer" {
		t.Errorf("role = %q, want farmer", got.Role)
	}

	// The hash must never appear in the response body.
	if strings.Contains(rec.Body.String(), "hashed_password") {
		t.Error("response leaks hashed_password field")
	}
}

func TestServeProfile_Anonymous(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)

	rec := testutil.NewRecorder()
	handler.ServeProfile(rec.ResponseRecorder, testutil.NewRequest("GET", "/profile"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

/*── rename ──────────────────────────────────────────────────────────────────*/

func TestHandleUpdateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateFarmer(ctx, "Ama Mensah", "ama@example.com")

	req := testutil.WithUser(
		testutil.NewJSONRequest("PUT", "/profile", `{"full_name":"  <b>Akosua Boateng</b>  "}`),
		asTestUser(user))
	rec := testutil.NewRecorder()
	handler.HandleUpdateName(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["full_name"] != "Akosua Boateng" {
		t.Errorf("full_name = %q, want sanitized %q", got["full_name"], "Akosua Boateng")
	}

	stored, err := userstore.New(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.FullName != "Akosua Boateng" {
		t.Errorf("stored full_name = %q, want %q", stored.FullName, "Akosua Boateng")
	}
}

func TestHandleUpdateName_Rejected(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty", `{"full_name":""}`},
		{"whitespace only", `{"full_name":"   "}`},
		{"tags only", `{"full_name":"<script>alert(1)</script>"}`},
		{"bad json", `{"full_name":`},
	}

	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateFarmer(ctx, "Ama Mensah", "ama@example.com")

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.WithUser(testutil.NewJSONRequest("PUT", "/profile", tc.body), asTestUser(user))
			rec := testutil.NewRecorder()
			handler.HandleUpdateName(rec.ResponseRecorder, req)
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}

	stored, err := userstore.New(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.FullName != "Ama Mensah" {
		t.Errorf("full_name changed to %q after rejected updates", stored.FullName)
	}
}

/*── password change ─────────────────────────────────────────────────────────*/

func TestHandleChangePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUserWithPassword(ctx, "Ama Mensah", "ama@example.com", "harvest-moon-7")

	req := testutil.WithUser(
		testutil.NewJSONRequest("POST", "/profile/password",
			`{"current_password":"harvest-moon-7","new_password":"dry-season-well-3"}`),
		asTestUser(user))
	rec := testutil.NewRecorder()
	handler.HandleChangePassword(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	stored, err := userstore.New(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if !authutil.CheckPassword("dry-season-well-3", stored.HashedPassword) {
		t.Error("new password does not verify against stored hash")
	}
	if authutil.CheckPassword("harvest-moon-7", stored.HashedPassword) {
		t.Error("old password still verifies after change")
	}
}

func TestHandleChangePassword_Rejected(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"wrong current", `{"current_password":"not-it","new_password":"dry-season-well-3"}`},
		{"too short", `{"current_password":"harvest-moon-7","new_password":"abc"}`},
		{"reuse", `{"current_password":"harvest-moon-7","new_password":"harvest-moon-7"}`},
		{"bad json", `{"current_password":`},
	}

	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUserWithPassword(ctx, "Ama Mensah", "ama@example.com", "harvest-moon-7")

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.WithUser(
				testutil.NewJSONRequest("POST", "/profile/password", tc.body),
				asTestUser(user))
			rec := testutil.NewRecorder()
			handler.HandleChangePassword(rec.ResponseRecorder, req)
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}

	stored, err := userstore.New(db).GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if !authutil.CheckPassword("harvest-moon-7", stored.HashedPassword) {
		t.Error("original password no longer verifies after rejected attempts")
	}
}

func TestHandleChangePassword_GoogleAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := makeGoogleUser(t, db, fixtures.CreateFarmer(ctx, "Kofi Adjei", "kofi@example.com"))

	req := testutil.WithUser(
		testutil.NewJSONRequest("POST", "/profile/password",
			`{"current_password":"","new_password":"dry-season-well-3"}`),
		asTestUser(user))
	rec := testutil.NewRecorder()
	handler.HandleChangePassword(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "password authentication")
}

/*── sign-in history ─────────────────────────────────────────────────────────*/

func TestServeLogins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateFarmer(ctx, "Ama Mensah", "ama@example.com")
	other := fixtures.CreateFarmer(ctx, "Kofi Adjei", "kofi@example.com")

	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := handler.Logins.Create(ctx, models.LoginRecord{
			UserID:  user.ID,
			LoginID: user.LoginID,
			Method:  "password",
			IP:      fmt.Sprintf("203.0.113.%d", i+1),
			At:      base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("seed login record: %v", err)
		}
	}
	// Someone else's sign-in must not show up.
	if err := handler.Logins.Create(ctx, models.LoginRecord{
		UserID: other.ID, LoginID: other.LoginID, Method: "google", IP: "198.51.100.9",
	}); err != nil {
		t.Fatalf("seed login record: %v", err)
	}

	req := testutil.WithUser(testutil.NewRequest("GET", "/profile/logins"), asTestUser(user))
	rec := testutil.NewRecorder()
	handler.ServeLogins(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	var got struct {
		Logins []struct {
			At     time.Time `json:"at"`
			Method string    `json:"method"`
			IP     string    `json:"ip"`
		} `json:"logins"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Logins) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got.Logins))
	}
	if got.Logins[0].IP != "203.0.113.3" || got.Logins[2].IP != "203.0.113.1" {
		t.Errorf("order: got [%s ... %s], want newest first", got.Logins[0].IP, got.Logins[2].IP)
	}
	if strings.Contains(rec.Body.String(), "198.51.100.9") {
		t.Error("response includes another user's sign-in")
	}
}

func TestServeLogins_Limit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateFarmer(ctx, "Ama Mensah", "ama@example.com")

	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := handler.Logins.Create(ctx, models.LoginRecord{
			UserID:  user.ID,
			LoginID: user.LoginID,
			Method:  "password",
			IP:      "203.0.113.7",
			At:      base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seed login record: %v", err)
		}
	}

	req := testutil.WithUser(testutil.NewRequest("GET", "/profile/logins?limit=2"), asTestUser(user))
	rec := testutil.NewRecorder()
	handler.ServeLogins(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	var got struct {
		Logins []json.RawMessage `json:"logins"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Logins) != 2 {
		t.Errorf("limit=2: got %d entries", len(got.Logins))
	}

	for _, bad := range []string{"0", "-1", "ten"} {
		t.Run("limit "+bad, func(t *testing.T) {
			req := testutil.WithUser(testutil.NewRequest("GET", "/profile/logins?limit="+bad), asTestUser(user))
			rec := testutil.NewRecorder()
			handler.ServeLogins(rec.ResponseRecorder, req)
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestServeLogins_Anonymous(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)

	rec := testutil.NewRecorder()
	handler.ServeLogins(rec.ResponseRecorder, testutil.NewRequest("GET", "/profile/logins"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}
