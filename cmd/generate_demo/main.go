// Command generate_demo creates a demo database with a few accounts, a small
// exercise catalogue and some favourites.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mrlokans/gymlife/internal/auth"
	"github.com/mrlokans/gymlife/internal/config"
	"github.com/mrlokans/gymlife/internal/database"
	"github.com/mrlokans/gymlife/internal/database/exercises"
	"github.com/mrlokans/gymlife/internal/database/favourites"
	"github.com/mrlokans/gymlife/internal/database/users"
	"github.com/mrlokans/gymlife/internal/entities"
)

const (
	defaultDemoDatabasePath = "./demo/demo.db"
	demoPassword            = "demo-password"
)

var demoUsers = []string{"arnold", "serena", "usain"}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	service := auth.NewService(users.NewRepository(db.DB), config.Auth{BcryptCost: 10})
	for _, name := range demoUsers {
		if _, err := service.Register(ctx, name, demoPassword); err != nil {
			log.Printf("Failed to create user %s: %v", name, err)
			continue
		}
		log.Printf("Created user %s (password %q)", name, demoPassword)
	}

	exerciseRepo := exercises.NewRepository(db.DB)
	catalogue := demoExercises()
	for i := range catalogue {
		if err := exerciseRepo.Create(ctx, &catalogue[i]); err != nil {
			log.Printf("Failed to save exercise %s: %v", catalogue[i].ExerciseName, err)
			continue
		}
		log.Printf("Saved: %s by %s", catalogue[i].ExerciseName, catalogue[i].UserName)
	}

	// Every user favourites the exercises of the next user along
	favouriteRepo := favourites.NewRepository(db.DB)
	for i, name := range demoUsers {
		other := demoUsers[(i+1)%len(demoUsers)]
		for _, exercise := range catalogue {
			if exercise.UserName != other || exercise.ID == "" {
				continue
			}
			if err := favouriteRepo.Set(ctx, name, exercise.ID, true); err != nil {
				log.Printf("Failed to favourite %s for %s: %v", exercise.ExerciseName, name, err)
			}
		}
	}

	log.Println("Demo database generated successfully!")
}

func demoExercises() []entities.Exercise {
	return []entities.Exercise{
		{
			UserName:        "arnold",
			ExerciseName:    "Barbell Back Squat",
			MuscleName:      "Quadriceps",
			EquipmentType:   "Barbell",
			DifficultyLevel: "Intermediate",
			Mechanics:       "Compound",
			TypeOfExercise:  "Powerlifting",
			Instructions:    "Rest the bar on your upper back, brace, sit down between your heels until your thighs pass parallel, then drive up.",
		},
		{
			UserName:        "arnold",
			ExerciseName:    "Dumbbell Curl",
			MuscleName:      "Biceps",
			EquipmentType:   "Dumbbell",
			DifficultyLevel: "Beginner",
			Mechanics:       "Isolation",
			TypeOfExercise:  "Strength",
			Instructions:    "Keep your elbows pinned to your sides and curl the dumbbells up without swinging.",
		},
		{
			UserName:        "arnold",
			ExerciseName:    "Incline Bench Press",
			MuscleName:      "Chest",
			EquipmentType:   "Barbell",
			DifficultyLevel: "Intermediate",
			Mechanics:       "Compound",
			TypeOfExercise:  "Strength",
			Instructions:    "Set the bench to thirty degrees, lower the bar to your upper chest and press it back over your shoulders.",
		},
		{
			UserName:        "serena",
			ExerciseName:    "Kettlebell Swing",
			MuscleName:      "Glutes",
			EquipmentType:   "Kettlebell",
			DifficultyLevel: "Beginner",
			Mechanics:       "Compound",
			TypeOfExercise:  "Strength",
			Instructions:    "Hinge at the hips, hike the bell back and snap your hips forward to float it to chest height.",
		},
		{
			UserName:        "serena",
			ExerciseName:    "Romanian Deadlift",
			MuscleName:      "Hamstrings",
			EquipmentType:   "Barbell",
			DifficultyLevel: "Intermediate",
			Mechanics:       "Compound",
			TypeOfExercise:  "Strength",
			Instructions:    "With soft knees, push your hips back and lower the bar along your legs until you feel a stretch, then stand tall.",
		},
		{
			UserName:        "serena",
			ExerciseName:    "Plank",
			MuscleName:      "Abdominals",
			EquipmentType:   "Body Only",
			DifficultyLevel: "Beginner",
			Mechanics:       "Isolation",
			TypeOfExercise:  "Stretching",
			Instructions:    "Hold a straight line from head to heels on your forearms and toes. Do not let your hips sag.",
		},
		{
			UserName:        "usain",
			ExerciseName:    "Box Jump",
			MuscleName:      "Quadriceps",
			EquipmentType:   "Body Only",
			DifficultyLevel: "Intermediate",
			Mechanics:       "Compound",
			TypeOfExercise:  "Plyometrics",
			Instructions:    "Swing your arms, jump onto the box landing softly with both feet, then step down.",
		},
		{
			UserName:        "usain",
			ExerciseName:    "Standing Calf Raise",
			MuscleName:      "Calves",
			EquipmentType:   "Machine",
			DifficultyLevel: "Beginner",
			Mechanics:       "Isolation",
			TypeOfExercise:  "Strength",
			Instructions:    "Rise onto the balls of your feet as high as you can, pause, then lower under control.",
		},
		{
			UserName:        "usain",
			ExerciseName:    "Power Clean",
			MuscleName:      "Shoulders",
			EquipmentType:   "Barbell",
			DifficultyLevel: "Advanced",
			Mechanics:       "Compound",
			TypeOfExercise:  "Olympic Weightlifting",
			Instructions:    "Pull the bar from the floor, extend violently through the hips and catch it on your shoulders in a quarter squat.",
		},
	}
}
