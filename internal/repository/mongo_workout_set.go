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

type MongoWorkoutSetRepository struct {
	collection *mongo.Collection
}

func NewMongoWorkoutSetRepository(db *mongo.Database) *MongoWorkoutSetRepository {
	coll := db.Collection("workout_sets")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "session_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "exercise_id", Value: 1}}},
	})

	return &MongoWorkoutSetRepository{
		collection: coll,
	}
}

// CreateMany inserts sets in order and assigns their ids
func (r *MongoWorkoutSetRepository) CreateMany(ctx context.Context, sets []*domain.WorkoutSet) error {
	if len(sets) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, len(sets))
	oids := make([]primitive.ObjectID, len(sets))
	for i, s := range sets {
		oids[i] = primitive.NewObjectID()
		s.CreatedAt = now
		docs[i] = bson.M{
			"_id":         oids[i],
			"user_id":     s.UserID,
			"session_id":  s.SessionID,
			"exercise_id": s.ExerciseID,
			"date":        s.Date,
			"set_number":  s.SetNumber,
			"weight_kg":   s.WeightKg,
			"reps":        s.Reps,
			"created_at":  s.CreatedAt,
		}
	}

	if _, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to create sets: %w", err)
	}
	for i, s := range sets {
		s.ID = oids[i].Hex()
	}
	return nil
}

func (r *MongoWorkoutSetRepository) ListBySessions(ctx context.Context, userID string, sessionIDs []string) ([]*domain.WorkoutSet, error) {
	if len(sessionIDs) == 0 {
		return []*domain.WorkoutSet{}, nil
	}
	return r.find(ctx, bson.M{"user_id": userID, "session_id": bson.M{"$in": sessionIDs}})
}

func (r *MongoWorkoutSetRepository) ListByExercise(ctx context.Context, userID, exerciseID string) ([]*domain.WorkoutSet, error) {
	return r.find(ctx, bson.M{"user_id": userID, "exercise_id": exerciseID})
}

func (r *MongoWorkoutSetRepository) ListAll(ctx context.Context, userID string) ([]*domain.WorkoutSet, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *MongoWorkoutSetRepository) DeleteBySession(ctx context.Context, userID, sessionID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID, "session_id": sessionID})
	if err != nil {
		return fmt.Errorf("failed to delete sets: %w", err)
	}
	return nil
}

// find returns sets in insertion order. ObjectIDs minted in CreateMany
// increase monotonically, so _id order is insertion order.
func (r *MongoWorkoutSetRepository) find(ctx context.Context, query bson.M) ([]*domain.WorkoutSet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sets := []*domain.WorkoutSet{}
	if err := cursor.All(ctx, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}
