package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mansoorceksport/ironlog/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements domain.UserRepository
type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	coll := db.Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// firebase_uid is sparse so dev-mode users without one can coexist
	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "firebase_uid", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})

	return &MongoUserRepository{
		collection: coll,
	}
}

func (r *MongoUserRepository) GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"firebase_uid": uid})
}

func (r *MongoUserRepository) UpsertByFirebaseUID(ctx context.Context, user *domain.User) error {
	filter := bson.M{"firebase_uid": user.FirebaseUID}

	// Generate ObjectID for potential insert
	objID := primitive.NewObjectID()
	now := time.Now()

	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":          objID,
			"firebase_uid": user.FirebaseUID,
			"created_at":   now,
		},
		"$set": bson.M{
			"email":      user.Email,
			"name":       user.Name,
			"updated_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	if result.UpsertedID != nil {
		user.ID = objID.Hex()
		user.CreatedAt = now
		user.UpdatedAt = now
		return nil
	}

	// Fetch to get current state
	existing, err := r.GetByFirebaseUID(ctx, user.FirebaseUID)
	if err != nil {
		return err
	}
	*user = *existing
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
