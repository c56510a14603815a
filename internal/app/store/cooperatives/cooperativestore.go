// internal/app/store/cooperatives/cooperativestore.go
package cooperativestore

import (
	"context"
	"errors"
	"time"

	"github.com/cropconnect/coophub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateCooperative = errors.New("a cooperative with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("cooperatives")}
}

// Create inserts a new cooperative owned by createdBy. The caller supplies
// Name, Description, Latitude, Longitude, and CreatedBy; everything else is
// filled in here. Name uniqueness is case/diacritic-insensitive via the
// name_ci unique index.
func (s *Store) Create(ctx context.Context, coop models.Cooperative) (models.Cooperative, error) {
	now := time.Now().UTC()
	coop.ID = primitive.NewObjectID()
	coop.NameCI = text.Fold(coop.Name)
	if coop.JoinRequests == nil {
		coop.JoinRequests = []models.JoinRequest{}
	}
	coop.CreatedAt = now
	coop.UpdatedAt = now

	_, err := s.c.InsertOne(ctx, coop)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Cooperative{}, ErrDuplicateCooperative
		}
		return models.Cooperative{}, err
	}
	return coop, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Cooperative, error) {
	var coop models.Cooperative
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&coop)
	if err != nil {
		return models.Cooperative{}, err
	}
	return coop, nil
}

func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Cooperative, error) {
	if len(ids) == 0 {
		return []models.Cooperative{}, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var coops []models.Cooperative
	if err := cur.All(ctx, &coops); err != nil {
		return nil, err
	}
	return coops, nil
}

// Update applies the provided fields to one cooperative. Location fields
// travel as a pair; callers that move a cooperative pass both.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, name, description string, lat, lng *float64) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if name != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if description != "" {
		set["description"] = description
	}
	if lat != nil && lng != nil {
		set["latitude"] = *lat
		set["longitude"] = *lng
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil && wafflemongo.IsDup(err) {
		return ErrDuplicateCooperative
	}
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) ExistsByNameCI(ctx context.Context, name string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"name_ci": text.Fold(name)}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// JoinRequests returns the join request list for one cooperative without
// loading the rest of the document.
func (s *Store) JoinRequests(ctx context.Context, id primitive.ObjectID) ([]models.JoinRequest, error) {
	opts := options.FindOne().SetProjection(bson.M{"join_requests": 1})

	var coop models.Cooperative
	err := s.c.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&coop)
	if err != nil {
		return nil, err
	}
	if coop.JoinRequests == nil {
		return []models.JoinRequest{}, nil
	}
	return coop.JoinRequests, nil
}

// AppendPendingRequest appends jr to the cooperative's join request list,
// guarded so that a user holds at most one pending request per cooperative.
// The filter only matches when no pending entry for jr.UserID exists, so two
// racing appends cannot both land; the loser sees matched == false. A false
// return also covers a cooperative that no longer exists, which callers that
// just read the document treat the same way.
func (s *Store) AppendPendingRequest(ctx context.Context, coopID primitive.ObjectID, jr models.JoinRequest) (bool, error) {
	filter := bson.M{
		"_id": coopID,
		"join_requests": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"user_id": jr.UserID,
			"status":  models.JoinStatusPending,
		}}},
	}
	update := bson.M{
		"$addToSet": bson.M{"join_requests": jr},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// ResolveRequest flips a pending join request for userID to status, which
// must be accepted or declined. Returns mongo.ErrNoDocuments when no pending
// request from that user exists on the cooperative.
func (s *Store) ResolveRequest(ctx context.Context, coopID, userID primitive.ObjectID, status string) error {
	filter := bson.M{
		"_id": coopID,
		"join_requests": bson.M{"$elemMatch": bson.M{
			"user_id": userID,
			"status":  models.JoinStatusPending,
		}},
	}
	update := bson.M{
		"$set": bson.M{
			"join_requests.$.status": status,
			"updated_at":             time.Now().UTC(),
		},
	}

	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
