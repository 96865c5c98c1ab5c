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

// MongoTrainingPlanRepository stores plans with their exercise links embedded
type MongoTrainingPlanRepository struct {
	collection *mongo.Collection
}

func NewMongoTrainingPlanRepository(db *mongo.Database) *MongoTrainingPlanRepository {
	coll := db.Collection("training_plans")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "exercises.exercise_id", Value: 1}}},
	})

	return &MongoTrainingPlanRepository{
		collection: coll,
	}
}

func (r *MongoTrainingPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) error {
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt
	plan.ID = ""
	if plan.Exercises == nil {
		plan.Exercises = []domain.PlanExercise{}
	}

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return fmt.Errorf("failed to create training plan: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		plan.ID = oid.Hex()
	}
	return nil
}

func (r *MongoTrainingPlanRepository) GetByID(ctx context.Context, userID, id string) (*domain.TrainingPlan, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var plan domain.TrainingPlan
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *MongoTrainingPlanRepository) List(ctx context.Context, userID string) ([]*domain.TrainingPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []*domain.TrainingPlan{}
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *MongoTrainingPlanRepository) Update(ctx context.Context, plan *domain.TrainingPlan) error {
	oid, err := primitive.ObjectIDFromHex(plan.ID)
	if err != nil {
		return domain.ErrInvalidID
	}
	plan.UpdatedAt = time.Now()
	if plan.Exercises == nil {
		plan.Exercises = []domain.PlanExercise{}
	}

	update := bson.M{
		"$set": bson.M{
			"name":       plan.Name,
			"exercises":  plan.Exercises,
			"updated_at": plan.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid, "user_id": plan.UserID}, update)
	if err != nil {
		return fmt.Errorf("failed to update training plan: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}

func (r *MongoTrainingPlanRepository) Delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete training plan: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}

func (r *MongoTrainingPlanRepository) RemoveExercise(ctx context.Context, userID, exerciseID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "exercises.exercise_id": exerciseID},
		bson.M{"$pull": bson.M{"exercises": bson.M{"exercise_id": exerciseID}}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove exercise from plans: %w", err)
	}
	return nil
}
