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

type MongoSupplementIntakeRepository struct {
	collection *mongo.Collection
}

func NewMongoSupplementIntakeRepository(db *mongo.Database) *MongoSupplementIntakeRepository {
	coll := db.Collection("supplement_intake")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
	})

	return &MongoSupplementIntakeRepository{collection: coll}
}

func (r *MongoSupplementIntakeRepository) Create(ctx context.Context, intake *domain.SupplementIntake) error {
	intake.CreatedAt = time.Now()
	intake.ID = ""

	result, err := r.collection.InsertOne(ctx, intake)
	if err != nil {
		return fmt.Errorf("failed to log supplement intake: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		intake.ID = oid.Hex()
	}
	return nil
}

func (r *MongoSupplementIntakeRepository) GetByID(ctx context.Context, userID, id string) (*domain.SupplementIntake, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var intake domain.SupplementIntake
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&intake); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrSupplementNotFound
		}
		return nil, err
	}
	return &intake, nil
}

func (r *MongoSupplementIntakeRepository) ListByDate(ctx context.Context, userID, date string) ([]*domain.SupplementIntake, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID, "date": date}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	intakes := []*domain.SupplementIntake{}
	if err := cursor.All(ctx, &intakes); err != nil {
		return nil, err
	}
	return intakes, nil
}

func (r *MongoSupplementIntakeRepository) Delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete supplement intake: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrSupplementNotFound
	}
	return nil
}
