// Package lookups reads the reference lists used by the exercise forms.
package lookups

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/gymlife/internal/entities"
)

// Repository handles lookup table reads.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new lookups repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// All returns every lookup list sorted by name.
func (r *Repository) All(ctx context.Context) (entities.Choices, error) {
	var choices entities.Choices
	db := r.db.WithContext(ctx)

	lists := []struct {
		table string
		dest  any
	}{
		{"muscles", &choices.Muscles},
		{"types_of_exercise", &choices.TypesOfExercise},
		{"mechanics", &choices.Mechanics},
		{"equipment", &choices.Equipment},
		{"difficulty", &choices.DifficultyLevels},
	}

	for _, list := range lists {
		if err := db.Order("name ASC").Find(list.dest).Error; err != nil {
			return entities.Choices{}, fmt.Errorf("load %s: %w", list.table, err)
		}
	}
	return choices, nil
}
