// Package favourites provides database operations for favourite exercise management.
//
// A favourite is a single (user, exercise) row. "Exercises a user favourited"
// and "users who favourited an exercise" are both read from the same row, so
// the two views cannot drift apart.
//
// # Usage
//
//	repo := favourites.NewRepository(db)
//	isFavourite, err := repo.Toggle(ctx, "alex", exerciseID)
package favourites

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/gymlife/internal/database/exercises"
	"github.com/mrlokans/gymlife/internal/entities"
)

// Repository handles all favourites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favourites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Toggle flips the favourite state of an exercise for a user and returns the
// new state. The current state is read inside the same transaction, so the
// client never has to tell us what it believes the state is.
func (r *Repository) Toggle(ctx context.Context, username, exerciseID string) (bool, error) {
	var isFavourite bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExercise(tx, exerciseID); err != nil {
			return err
		}

		result := tx.Where("user_name = ? AND exercise_id = ?", username, exerciseID).
			Delete(&entities.Favourite{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			isFavourite = false
			return nil
		}

		if err := tx.Create(&entities.Favourite{UserName: username, ExerciseID: exerciseID}).Error; err != nil {
			return err
		}
		isFavourite = true
		return nil
	})
	if err != nil {
		if errors.Is(err, exercises.ErrExerciseNotFound) {
			return false, err
		}
		return false, fmt.Errorf("toggle favourite %s for %s: %w", exerciseID, username, err)
	}
	return isFavourite, nil
}

// Set forces the favourite state of an exercise for a user. Setting the
// current state again is a no-op.
func (r *Repository) Set(ctx context.Context, username, exerciseID string, favourite bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !favourite {
			return tx.Where("user_name = ? AND exercise_id = ?", username, exerciseID).
				Delete(&entities.Favourite{}).Error
		}

		if err := ensureExercise(tx, exerciseID); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entities.Favourite{UserName: username, ExerciseID: exerciseID}).Error
	})
	if err != nil {
		if errors.Is(err, exercises.ErrExerciseNotFound) {
			return err
		}
		return fmt.Errorf("set favourite %s for %s: %w", exerciseID, username, err)
	}
	return nil
}

// IsFavourite reports whether username has favourited the exercise.
func (r *Repository) IsFavourite(ctx context.Context, username, exerciseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Favourite{}).
		Where("user_name = ? AND exercise_id = ?", username, exerciseID).
		Count(&count).Error
	return count > 0, err
}

// FavouriteIDs returns the ids of the live exercises username has favourited.
func (r *Repository) FavouriteIDs(ctx context.Context, username string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&entities.Favourite{}).
		Joins("JOIN exercises ON exercises.id = favourites.exercise_id AND exercises.deleted_at IS NULL").
		Where("favourites.user_name = ?", username).
		Order("favourites.created_at ASC").
		Pluck("favourites.exercise_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list favourites of %s: %w", username, err)
	}
	return ids, nil
}

// FavouritedBy returns the names of the users who favourited the exercise.
func (r *Repository) FavouritedBy(ctx context.Context, exerciseID string) ([]string, error) {
	var users []string
	err := r.db.WithContext(ctx).Model(&entities.Favourite{}).
		Where("exercise_id = ?", exerciseID).
		Order("user_name ASC").
		Pluck("user_name", &users).Error
	if err != nil {
		return nil, fmt.Errorf("list users favouriting %s: %w", exerciseID, err)
	}
	return users, nil
}

func ensureExercise(tx *gorm.DB, exerciseID string) error {
	if !exercises.ValidID(exerciseID) {
		return exercises.ErrExerciseNotFound
	}

	var count int64
	if err := tx.Model(&entities.Exercise{}).Where("id = ?", exerciseID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return exercises.ErrExerciseNotFound
	}
	return nil
}
