// internal/domain/models/notification.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType discriminates the notification variants shown in the
// inbox. Unknown values read from the store decode as TypeGeneralMessage so
// records written by a newer producer never break an older reader.
type NotificationType string

const (
	TypeCooperativeInvite      NotificationType = "cooperativeInvite"
	TypeCooperativeJoinRequest NotificationType = "cooperativeJoinRequest"
	TypeGeneralMessage         NotificationType = "generalMessage"
)

// NotificationAction is the follow-up a notification suggests to the
// recipient. Unknown values decode as ActionNone.
type NotificationAction string

const (
	ActionAcceptInvite  NotificationAction = "acceptInvite"
	ActionDeclineInvite NotificationAction = "declineInvite"
	ActionNone          NotificationAction = "none"
)

// ParseNotificationType maps a stored type name to its variant, falling
// back to TypeGeneralMessage for anything unrecognized.
func ParseNotificationType(s string) NotificationType {
	switch NotificationType(s) {
	case TypeCooperativeInvite, TypeCooperativeJoinRequest, TypeGeneralMessage:
		return NotificationType(s)
	default:
		return TypeGeneralMessage
	}
}

// ParseNotificationAction maps a stored action name to its variant, falling
// back to ActionNone for anything unrecognized.
func ParseNotificationAction(s string) NotificationAction {
	switch NotificationAction(s) {
	case ActionAcceptInvite, ActionDeclineInvite, ActionNone:
		return NotificationAction(s)
	default:
		return ActionNone
	}
}

// Notification is a message delivered to a single recipient's inbox.
// Created once by a producer; afterwards only IsRead may change. ID is the
// store-generated identifier echoed back into the record so a decoded value
// is self-describing independent of where it was read from.
type Notification struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID  `bson:"user_id" json:"user_id"` // recipient
	Type          NotificationType    `bson:"type" json:"type"`
	Title         string              `bson:"title" json:"title"`
	Message       string              `bson:"message" json:"message"`
	CooperativeID *primitive.ObjectID `bson:"cooperative_id,omitempty" json:"cooperative_id,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	IsRead        bool                `bson:"is_read" json:"is_read"`
	Action        NotificationAction  `bson:"action" json:"action"`
}

// Validate enforces the cross-field invariants producers must satisfy:
// cooperative-scoped types carry a cooperative id, and plain messages carry
// no suggested action.
func (n Notification) Validate() error {
	switch n.Type {
	case TypeCooperativeInvite, TypeCooperativeJoinRequest:
		if n.CooperativeID == nil {
			return fmt.Errorf("notification type %q requires a cooperative id", n.Type)
		}
	case TypeGeneralMessage:
		if n.Action != ActionNone {
			return fmt.Errorf("general message notifications cannot carry action %q", n.Action)
		}
	default:
		return fmt.Errorf("unknown notification type %q", n.Type)
	}

	switch n.Action {
	case ActionAcceptInvite, ActionDeclineInvite, ActionNone:
	default:
		return fmt.Errorf("unknown notification action %q", n.Action)
	}

	return nil
}
