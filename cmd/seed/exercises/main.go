package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/mansoorceksport/ironlog/internal/config"
	"github.com/mansoorceksport/ironlog/internal/domain"
	"github.com/mansoorceksport/ironlog/internal/repository"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// starterLibrary covers every muscle group
var starterLibrary = []domain.Exercise{
	// Legs
	{Name: "Barbell Squat", MuscleGroup: domain.MuscleGroupLegs, Description: "Barbell"},
	{Name: "Leg Press", MuscleGroup: domain.MuscleGroupLegs, Description: "Machine"},
	{Name: "Walking Lunge", MuscleGroup: domain.MuscleGroupLegs, Description: "Bodyweight or dumbbell"},
	{Name: "Leg Extension", MuscleGroup: domain.MuscleGroupLegs, Description: "Machine"},
	{Name: "Lying Leg Curl", MuscleGroup: domain.MuscleGroupLegs, Description: "Machine"},
	{Name: "Romanian Deadlift", MuscleGroup: domain.MuscleGroupLegs, Description: "Barbell, hamstrings"},
	{Name: "Bulgarian Split Squat", MuscleGroup: domain.MuscleGroupLegs, Description: "Dumbbell"},

	// Calves
	{Name: "Standing Calf Raise", MuscleGroup: domain.MuscleGroupCalves, Description: "Machine"},
	{Name: "Seated Calf Raise", MuscleGroup: domain.MuscleGroupCalves, Description: "Machine"},

	// Chest
	{Name: "Barbell Bench Press", MuscleGroup: domain.MuscleGroupChest, Description: "Barbell"},
	{Name: "Incline Dumbbell Press", MuscleGroup: domain.MuscleGroupChest, Description: "Dumbbell"},
	{Name: "Push Up", MuscleGroup: domain.MuscleGroupChest, Description: "Bodyweight"},
	{Name: "Cable Fly", MuscleGroup: domain.MuscleGroupChest, Description: "Cable"},
	{Name: "Machine Chest Press", MuscleGroup: domain.MuscleGroupChest, Description: "Machine"},

	// Back
	{Name: "Pull Up", MuscleGroup: domain.MuscleGroupBack, Description: "Bodyweight"},
	{Name: "Lat Pulldown", MuscleGroup: domain.MuscleGroupBack, Description: "Cable"},
	{Name: "Barbell Row", MuscleGroup: domain.MuscleGroupBack, Description: "Barbell"},
	{Name: "Seated Cable Row", MuscleGroup: domain.MuscleGroupBack, Description: "Cable"},
	{Name: "Single Arm Dumbbell Row", MuscleGroup: domain.MuscleGroupBack, Description: "Dumbbell"},
	{Name: "Face Pull", MuscleGroup: domain.MuscleGroupBack, Description: "Cable, rear delts"},

	// Shoulders
	{Name: "Overhead Press", MuscleGroup: domain.MuscleGroupShoulders, Description: "Barbell"},
	{Name: "Dumbbell Shoulder Press", MuscleGroup: domain.MuscleGroupShoulders, Description: "Dumbbell"},
	{Name: "Lateral Raise", MuscleGroup: domain.MuscleGroupShoulders, Description: "Dumbbell"},
	{Name: "Reverse Fly", MuscleGroup: domain.MuscleGroupShoulders, Description: "Machine"},

	// Arms
	{Name: "Barbell Curl", MuscleGroup: domain.MuscleGroupBiceps, Description: "Barbell"},
	{Name: "Hammer Curl", MuscleGroup: domain.MuscleGroupBiceps, Description: "Dumbbell"},
	{Name: "Preacher Curl", MuscleGroup: domain.MuscleGroupBiceps, Description: "EZ bar"},
	{Name: "Tricep Pushdown", MuscleGroup: domain.MuscleGroupTriceps, Description: "Cable"},
	{Name: "Skullcrusher", MuscleGroup: domain.MuscleGroupTriceps, Description: "EZ bar"},
	{Name: "Overhead Tricep Extension", MuscleGroup: domain.MuscleGroupTriceps, Description: "Dumbbell"},
	{Name: "Wrist Curl", MuscleGroup: domain.MuscleGroupForearms, Description: "Dumbbell"},
	{Name: "Farmer's Walk", MuscleGroup: domain.MuscleGroupForearms, Description: "Dumbbell"},

	// Abs
	{Name: "Plank", MuscleGroup: domain.MuscleGroupAbs, Description: "Bodyweight"},
	{Name: "Hanging Leg Raise", MuscleGroup: domain.MuscleGroupAbs, Description: "Bodyweight"},
	{Name: "Ab Wheel Rollout", MuscleGroup: domain.MuscleGroupAbs, Description: "Ab wheel"},

	// Full body
	{Name: "Deadlift", MuscleGroup: domain.MuscleGroupFullBody, Description: "Barbell"},
	{Name: "Kettlebell Swing", MuscleGroup: domain.MuscleGroupFullBody, Description: "Kettlebell"},
	{Name: "Burpee", MuscleGroup: domain.MuscleGroupFullBody, Description: "Bodyweight"},
}

func main() {
	userID := flag.String("user", "", "user id that owns the seeded exercises")
	flag.Parse()
	if *userID == "" {
		log.Fatal("-user is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(context.Background())

	repo := repository.NewMongoExerciseRepository(client.Database(cfg.MongoDB.Database))

	created, skipped := 0, 0
	for _, ex := range starterLibrary {
		ex.UserID = *userID
		if err := ex.Validate(); err != nil {
			log.WithError(err).WithField("name", ex.Name).Error("invalid seed exercise")
			continue
		}
		if err := repo.Create(ctx, &ex); err != nil {
			if errors.Is(err, domain.ErrDuplicateExercise) {
				skipped++
				log.WithField("name", ex.Name).Debug("skipping duplicate")
				continue
			}
			log.WithError(err).WithField("name", ex.Name).Error("failed to create exercise")
			continue
		}
		created++
	}

	log.WithFields(log.Fields{
		"user_id": *userID,
		"created": created,
		"skipped": skipped,
	}).Info("seeding exercises complete")
}
