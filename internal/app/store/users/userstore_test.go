package userstore_test

import (
	"testing"

	userstore "github.com/cropconnect/coophub/internal/app/store/users"
	"github.com/cropconnect/coophub/internal/domain/models"
	"github.com/cropconnect/coophub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestStore_Create_Farmer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := models.User{
		FullName:   "  Ana Silva  ",
		LoginID:    "Ana@Example.COM",
		AuthMethod: "password",
	}

	created, err := store.Create(ctx, user)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Verify ID was assigned
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}

	// Verify normalized fields
	if created.FullName != "Ana Silva" {
		t.Errorf("FullName: got %q, want trimmed %q", created.FullName, "Ana Silva")
	}
	if created.LoginID != "ana@example.com" {
		t.Errorf("LoginID: got %q, want lowercased %q", created.LoginID, "ana@example.com")
	}
	if created.FullNameCI == "" || created.LoginIDCI == "" {
		t.Error("expected folded CI fields to be set")
	}

	// Verify defaults
	if created.Role != "farmer" {
		t.Errorf("expected default role 'farmer', got %q", created.Role)
	}
	if created.Status != "active" {
		t.Errorf("expected status 'active', got %q", created.Status)
	}

	// Verify timestamps
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{
		FullName: "Bad Role",
		LoginID:  "bad@example.com",
		Role:     "superuser",
	})
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestStore_Create_DuplicateLoginID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The duplicate comes from the unique login_id_ci index.
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "login_id_ci", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatalf("index create failed: %v", err)
	}

	_, err = store.Create(ctx, models.User{FullName: "Ana Silva", LoginID: "ana@example.com"})
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err = store.Create(ctx, models.User{FullName: "Impostor", LoginID: "ANA@example.com"})
	if err != userstore.ErrDuplicateLoginID {
		t.Errorf("expected ErrDuplicateLoginID, got %v", err)
	}
}

func TestStore_GetByLoginID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created := fixtures.CreateFarmer(ctx, "Ana Silva", "ana@example.com")

	got, err := store.GetByLoginID(ctx, "  ANA@Example.com ")
	if err != nil {
		t.Fatalf("GetByLoginID failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID: got %v, want %v", got.ID, created.ID)
	}

	_, err = store.GetByLoginID(ctx, "nobody@example.com")
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_SetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateFarmer(ctx, "Ana Silva", "ana@example.com")

	if err := store.SetStatus(ctx, user.ID, "disabled"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	got, err := store.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != "disabled" {
		t.Errorf("Status: got %q, want %q", got.Status, "disabled")
	}

	if err := store.SetStatus(ctx, user.ID, "frozen"); err == nil {
		t.Error("expected error for invalid status")
	}
	if err := store.SetStatus(ctx, primitive.NewObjectID(), "active"); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fetcher := userstore.NewFetcher(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateFarmer(ctx, "Ana Silva", "ana@example.com")

	su := fetcher.FetchUser(ctx, user.ID.Hex())
	if su == nil {
		t.Fatal("expected a session user")
	}
	if su.Name != "Ana Silva" || su.LoginID != "ana@example.com" || su.Role != "farmer" {
		t.Errorf("session user: %+v", su)
	}
}

func TestFetcher_FetchUser_Disabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fetcher := userstore.NewFetcher(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateDisabledUser(ctx, "Banned User", "banned@example.com")

	if su := fetcher.FetchUser(ctx, user.ID.Hex()); su != nil {
		t.Errorf("disabled user should fetch as nil, got %+v", su)
	}
}

func TestFetcher_FetchUser_BadID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if su := fetcher.FetchUser(ctx, "not-a-hex-id"); su != nil {
		t.Errorf("malformed ID should fetch as nil, got %+v", su)
	}
	if su := fetcher.FetchUser(ctx, primitive.NewObjectID().Hex()); su != nil {
		t.Errorf("unknown ID should fetch as nil, got %+v", su)
	}
}
