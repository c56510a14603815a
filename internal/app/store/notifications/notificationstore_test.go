package notificationstore_test

import (
	"testing"
	"time"

	notificationstore "github.com/cropconnect/coophub/internal/app/store/notifications"
	"github.com/cropconnect/coophub/internal/domain/models"
	"github.com/cropconnect/coophub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateFarmer(ctx, "Ana Silva", "ana@example.com")
	coop := fixtures.CreateCooperative(ctx, "Vale Verde", -22.9, -47.06, owner.ID)

	n, err := store.Create(ctx, models.Notification{
		UserID:        owner.ID,
		Type:          models.TypeCooperativeJoinRequest,
		Title:         "Join request",
		Message:       "Bruno Costa wants to join Vale Verde",
		CooperativeID: &coop.ID,
		Action:        models.ActionNone,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if n.ID.IsZero() {
		t.Error("expected a generated ID")
	}
	if n.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	// The stored document uses symbolic enum names and a native datetime.
	var raw bson.M
	if err := db.Collection("notifications").FindOne(ctx, bson.M{"_id": n.ID}).Decode(&raw); err != nil {
		t.Fatalf("raw read failed: %v", err)
	}
	if raw["type"] != "cooperativeJoinRequest" {
		t.Errorf("stored type: got %v, want %q", raw["type"], "cooperativeJoinRequest")
	}
	if raw["action"] != "none" {
		t.Errorf("stored action: got %v, want %q", raw["action"], "none")
	}
	if _, ok := raw["created_at"].(primitive.DateTime); !ok {
		t.Errorf("stored created_at should be a BSON datetime, got %T", raw["created_at"])
	}
}

func TestStore_Create_RejectsInvalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A join request notification must reference a cooperative.
	_, err := store.Create(ctx, models.Notification{
		UserID: primitive.NewObjectID(),
		Type:   models.TypeCooperativeJoinRequest,
		Title:  "t",
		Action: models.ActionNone,
	})
	if err == nil {
		t.Fatal("expected a validation error")
	}

	count, _ := db.Collection("notifications").CountDocuments(ctx, bson.M{})
	if count != 0 {
		t.Errorf("invalid notification must not be written, found %d documents", count)
	}
}

func TestStore_ListByRecipient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateFarmer(ctx, "Ana Silva", "ana@example.com")
	bruno := fixtures.CreateFarmer(ctx, "Bruno Costa", "bruno@example.com")

	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, models.Notification{
			UserID:    alice.ID,
			Type:      models.TypeGeneralMessage,
			Title:     "t",
			Message:   "m",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Action:    models.ActionNone,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	fixtures.CreateNotification(ctx, bruno.ID, models.TypeGeneralMessage, "other", "inbox", nil)

	got, err := store.ListByRecipient(ctx, alice.ID, 10, nil)
	if err != nil {
		t.Fatalf("ListByRecipient failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(got))
	}
	// Newest first, and only Alice's.
	for i := 0; i < len(got)-1; i++ {
		if got[i].CreatedAt.Before(got[i+1].CreatedAt) {
			t.Errorf("results out of order at %d: %v before %v", i, got[i].CreatedAt, got[i+1].CreatedAt)
		}
	}
	for _, n := range got {
		if n.UserID != alice.ID {
			t.Errorf("leaked another user's notification: %+v", n)
		}
	}
}

func TestStore_ListByRecipient_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateFarmer(ctx, "Ana Silva", "ana@example.com")

	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.Create(ctx, models.Notification{
			UserID:    alice.ID,
			Type:      models.TypeGeneralMessage,
			Title:     "t",
			Message:   "m",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Action:    models.ActionNone,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	first, err := store.ListByRecipient(ctx, alice.ID, 2, nil)
	if err != nil {
		t.Fatalf("ListByRecipient failed: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected page of 2, got %d", len(first))
	}

	cursor := first[len(first)-1].CreatedAt
	second, err := store.ListByRecipient(ctx, alice.ID, 10, &cursor)
	if err != nil {
		t.Fatalf("ListByRecipient failed: %v", err)
	}
	if len(second) != 3 {
		t.Fatalf("expected 3 older notifications, got %d", len(second))
	}
	for _, n := range second {
		if !n.CreatedAt.Before(cursor) {
			t.Errorf("page two entry %v is not older than cursor %v", n.CreatedAt, cursor)
		}
	}
}

func TestStore_CountUnread(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateFarmer(ctx, "Ana Silva", "ana@example.com")

	n1 := fixtures.CreateNotification(ctx, alice.ID, models.TypeGeneralMessage, "a", "m", nil)
	fixtures.CreateNotification(ctx, alice.ID, models.TypeGeneralMessage, "b", "m", nil)

	count, err := store.CountUnread(ctx, alice.ID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if count != 2 {
		t.Errorf("unread count: got %d, want 2", count)
	}

	if err := store.MarkRead(ctx, alice.ID, n1.ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	count, err = store.CountUnread(ctx, alice.ID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if count != 1 {
		t.Errorf("unread count after MarkRead: got %d, want 1", count)
	}
}

func TestStore_MarkRead_WrongRecipient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateFarmer(ctx, "Ana Silva", "ana@example.com")
	bruno := fixtures.CreateFarmer(ctx, "Bruno Costa", "bruno@example.com")
	n := fixtures.CreateNotification(ctx, alice.ID, models.TypeGeneralMessage, "a", "m", nil)

	err := store.MarkRead(ctx, bruno.ID, n.ID)
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments for another user's notification, got %v", err)
	}
}

func TestStore_MarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateFarmer(ctx, "Ana Silva", "ana@example.com")
	bruno := fixtures.CreateFarmer(ctx, "Bruno Costa", "bruno@example.com")

	fixtures.CreateNotification(ctx, alice.ID, models.TypeGeneralMessage, "a", "m", nil)
	fixtures.CreateNotification(ctx, alice.ID, models.TypeGeneralMessage, "b", "m", nil)
	fixtures.CreateNotification(ctx, bruno.ID, models.TypeGeneralMessage, "c", "m", nil)

	changed, err := store.MarkAllRead(ctx, alice.ID)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if changed != 2 {
		t.Errorf("changed: got %d, want 2", changed)
	}

	brunoUnread, _ := store.CountUnread(ctx, bruno.ID)
	if brunoUnread != 1 {
		t.Errorf("MarkAllRead touched another user's records, unread is %d", brunoUnread)
	}
}

func TestStore_Delete_WrongRecipient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateFarmer(ctx, "Ana Silva", "ana@example.com")
	bruno := fixtures.CreateFarmer(ctx, "Bruno Costa", "bruno@example.com")
	n := fixtures.CreateNotification(ctx, alice.ID, models.TypeGeneralMessage, "a", "m", nil)

	if err := store.Delete(ctx, bruno.ID, n.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}

	// Still there for its owner.
	if _, err := store.GetByID(ctx, alice.ID, n.ID); err != nil {
		t.Errorf("notification should remain for its owner: %v", err)
	}
}

func TestStore_DeleteReadOlderThan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateFarmer(ctx, "Ana Silva", "ana@example.com")
	cutoff := time.Now().UTC().Add(-30 * 24 * time.Hour)

	// Old and read: swept. Old and unread: kept. Recent and read: kept.
	oldRead, err := store.Create(ctx, models.Notification{
		UserID: alice.ID, Type: models.TypeGeneralMessage, Title: "t", Message: "m",
		CreatedAt: cutoff.Add(-time.Hour), IsRead: true, Action: models.ActionNone,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	oldUnread, err := store.Create(ctx, models.Notification{
		UserID: alice.ID, Type: models.TypeGeneralMessage, Title: "t", Message: "m",
		CreatedAt: cutoff.Add(-time.Hour), Action: models.ActionNone,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	recentRead, err := store.Create(ctx, models.Notification{
		UserID: alice.ID, Type: models.TypeGeneralMessage, Title: "t", Message: "m",
		CreatedAt: cutoff.Add(time.Hour), IsRead: true, Action: models.ActionNone,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	removed, err := store.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		t.Fatalf("DeleteReadOlderThan failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed: got %d, want 1", removed)
	}

	if _, err := store.GetByID(ctx, alice.ID, oldRead.ID); err != mongo.ErrNoDocuments {
		t.Errorf("old read notification should be gone, got %v", err)
	}
	if _, err := store.GetByID(ctx, alice.ID, oldUnread.ID); err != nil {
		t.Errorf("old unread notification should survive: %v", err)
	}
	if _, err := store.GetByID(ctx, alice.ID, recentRead.ID); err != nil {
		t.Errorf("recent read notification should survive: %v", err)
	}
}

func TestStore_UnknownStoredTypeReadsAsGeneralMessage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateFarmer(ctx, "Ana Silva", "ana@example.com")

	// A record written by a later release with a type this build has never
	// heard of.
	_, err := db.Collection("notifications").InsertOne(ctx, bson.M{
		"_id":        primitive.NewObjectID(),
		"user_id":    alice.ID,
		"type":       "harvestReportReady",
		"title":      "Harvest report",
		"message":    "Your report is ready",
		"created_at": time.Now().UTC(),
		"is_read":    false,
		"action":     "openReport",
	})
	if err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	got, err := store.ListByRecipient(ctx, alice.ID, 10, nil)
	if err != nil {
		t.Fatalf("ListByRecipient failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0].Type != models.TypeGeneralMessage {
		t.Errorf("Type: got %q, want %q", got[0].Type, models.TypeGeneralMessage)
	}
	if got[0].Action != models.ActionNone {
		t.Errorf("Action: got %q, want %q", got[0].Action, models.ActionNone)
	}
	if got[0].Title != "Harvest report" {
		t.Errorf("Title should survive the fallback, got %q", got[0].Title)
	}
}
