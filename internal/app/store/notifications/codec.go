// internal/app/store/notifications/codec.go
package notificationstore

import (
	"fmt"
	"time"

	"github.com/cropconnect/coophub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The notification codec is explicit rather than struct-tag driven so the
// wire schema stays pinned down in one place: enum fields travel as their
// symbolic names, timestamps as native BSON datetimes, and unknown enum
// values read back as safe fallbacks instead of failing the whole document.
// A client running behind the server simply renders an unrecognized
// notification as a general message with no action button.

// encodeNotification maps n to its stored document. The _id is not part of
// the map; inserts set it alongside.
func encodeNotification(n models.Notification) bson.M {
	doc := bson.M{
		"user_id":    n.UserID,
		"type":       string(n.Type),
		"title":      n.Title,
		"message":    n.Message,
		"created_at": n.CreatedAt,
		"is_read":    n.IsRead,
		"action":     string(n.Action),
	}
	if n.CooperativeID != nil {
		doc["cooperative_id"] = *n.CooperativeID
	}
	return doc
}

// decodeNotification reconstructs a notification from its stored document.
// Unknown type values fall back to generalMessage and unknown actions to
// none; those two fields aside, the decode is strict about shape, so a
// document with a missing or mistyped recipient is an error rather than a
// silently empty record.
func decodeNotification(id primitive.ObjectID, doc bson.M) (models.Notification, error) {
	userID, ok := doc["user_id"].(primitive.ObjectID)
	if !ok {
		return models.Notification{}, fmt.Errorf("notification %s: missing or invalid user_id", id.Hex())
	}

	n := models.Notification{
		ID:     id,
		UserID: userID,
		Type:   models.ParseNotificationType(stringField(doc, "type")),
		Title:  stringField(doc, "title"),
		Action: models.ParseNotificationAction(stringField(doc, "action")),
	}
	n.Message = stringField(doc, "message")

	if coopID, ok := doc["cooperative_id"].(primitive.ObjectID); ok {
		n.CooperativeID = &coopID
	}

	created, err := timeField(doc, "created_at", id)
	if err != nil {
		return models.Notification{}, err
	}
	n.CreatedAt = created

	if isRead, ok := doc["is_read"].(bool); ok {
		n.IsRead = isRead
	}

	return n, nil
}

func stringField(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}

// timeField accepts both representations a stored datetime can decode into,
// depending on whether the document came straight from the driver or was
// built in process.
func timeField(doc bson.M, key string, id primitive.ObjectID) (time.Time, error) {
	switch v := doc[key].(type) {
	case primitive.DateTime:
		return v.Time().UTC(), nil
	case time.Time:
		return v.UTC(), nil
	case nil:
		return time.Time{}, fmt.Errorf("notification %s: missing %s", id.Hex(), key)
	default:
		return time.Time{}, fmt.Errorf("notification %s: invalid %s", id.Hex(), key)
	}
}
