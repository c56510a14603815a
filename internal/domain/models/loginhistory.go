// internal/domain/models/loginhistory.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginRecord captures a single successful sign-in event.
// At is indexed for recent-activity views.
type LoginRecord struct {
	UserID    primitive.ObjectID `bson:"user_id"`
	LoginID   string             `bson:"login_id"`
	Method    string             `bson:"method"` // password | google
	IP        string             `bson:"ip"`
	UserAgent string             `bson:"user_agent,omitempty"`
	At        time.Time          `bson:"at"`
}
