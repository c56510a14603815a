// internal/domain/models/cooperative.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Join request statuses. New requests are always created pending; the
// accepted/declined transitions belong to the administrator approval
// surface, not to this core.
const (
	JoinStatusPending  = "pending"
	JoinStatusAccepted = "accepted"
	JoinStatusDeclined = "declined"
)

// Cooperative is an organizational entity with a geographic location that
// farmers may request to join.
//
// NOTE:
//   - Join requests stay embedded on the cooperative document (unlike user
//     membership, which would get its own collection at larger scale). The
//     request append and its admin notification must land in one atomic
//     batch, and the embedded array keeps the append a single-document op.
//   - Invariant: JoinRequests holds at most one pending entry per user_id.
//   - JoinRequests is excluded from JSON: cooperative documents travel on
//     public endpoints, and the request list (who asked, when) is owner-only
//     data served through its own endpoint.
type Cooperative struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Latitude    float64            `bson:"latitude" json:"latitude"`
	Longitude   float64            `bson:"longitude" json:"longitude"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"created_by"`

	JoinRequests []JoinRequest `bson:"join_requests" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// JoinRequest is one user's request to become a member of a cooperative.
// Created only with status "pending"; UserName is denormalized so the
// admin list renders without a user lookup.
type JoinRequest struct {
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	UserName    string             `bson:"user_name" json:"user_name"`
	RequestedAt time.Time          `bson:"requested_at" json:"requested_at"`
	Status      string             `bson:"status" json:"status"` // pending | accepted | declined
}

// Location returns the cooperative's position as a coordinate value.
func (c Cooperative) Location() GeoCoordinate {
	return GeoCoordinate{Latitude: c.Latitude, Longitude: c.Longitude}
}

// HasPendingRequest reports whether userID already has a pending join
// request on this cooperative.
func (c Cooperative) HasPendingRequest(userID primitive.ObjectID) bool {
	for _, jr := range c.JoinRequests {
		if jr.UserID == userID && jr.Status == JoinStatusPending {
			return true
		}
	}
	return false
}
