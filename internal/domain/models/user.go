// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents farmers and platform admins.
//
// NOTE:
//   - Cooperative membership is not embedded on User. A user's pending
//     requests live on the cooperative documents themselves.
//   - LoginID is what the user types to sign in; LoginIDCI is the folded
//     form the unique index is built on.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName       string             `bson:"full_name" json:"full_name"`
	FullNameCI     string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	LoginID        string             `bson:"login_id" json:"login_id"`
	LoginIDCI      string             `bson:"login_id_ci" json:"login_id_ci"`
	HashedPassword string             `bson:"hashed_password,omitempty" json:"-"`
	AuthMethod     string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google
	GoogleID       string             `bson:"google_id,omitempty" json:"-"`                       // Google subject ID once linked
	Role           string             `bson:"role" json:"role"`                                   // farmer | admin
	Status         string             `bson:"status,omitempty" json:"status,omitempty"`           // active | disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
