// Package exercises provides database operations for the exercise catalogue.
//
// # Usage
//
//	repo := exercises.NewRepository(db)
//	list, total, err := repo.List(ctx, page.Limit, page.Offset)
//	results, err := repo.Search(ctx, search.New("squat"))
package exercises

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"gorm.io/gorm"

	"github.com/mrlokans/gymlife/internal/entities"
	"github.com/mrlokans/gymlife/internal/search"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
)

// editableColumns are the columns an edit form may change. The owner and
// timestamps are never taken from user input.
var editableColumns = []string{
	"exercise_name",
	"muscle_name",
	"equipment_type",
	"difficulty_level",
	"mechanics",
	"type_of_exercise",
	"instructions",
	"search_text",
}

const listOrder = "exercises.created_at ASC, exercises.id ASC"

// Repository handles all exercise database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new exercises repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NewID returns a fresh opaque exercise identifier.
func NewID() string {
	return xid.New().String()
}

// ValidID reports whether id has the shape of an exercise identifier.
func ValidID(id string) bool {
	_, err := xid.FromString(id)
	return err == nil
}

// Create inserts a new exercise, assigning an identifier when none is set.
func (r *Repository) Create(ctx context.Context, exercise *entities.Exercise) error {
	if exercise.ID == "" {
		exercise.ID = NewID()
	}
	if err := r.db.WithContext(ctx).Create(exercise).Error; err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}
	return nil
}

// GetByID returns a live exercise. Malformed identifiers are reported as not found.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Exercise, error) {
	if !ValidID(id) {
		return nil, ErrExerciseNotFound
	}

	var exercise entities.Exercise
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&exercise).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("get exercise %s: %w", id, err)
	}
	return &exercise, nil
}

// Update overwrites the editable fields of an existing exercise.
func (r *Repository) Update(ctx context.Context, id string, fields *entities.Exercise) error {
	if !ValidID(id) {
		return ErrExerciseNotFound
	}

	// Hooks would run on the empty model, so search_text is set by hand.
	fields.SearchText = fields.BuildSearchText()
	result := r.db.WithContext(ctx).Session(&gorm.Session{SkipHooks: true}).
		Model(&entities.Exercise{}).
		Where("id = ?", id).
		Select(editableColumns).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("update exercise %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

// Delete soft-deletes an exercise. Its favourite rows stay until the purge
// task removes both permanently; listings already ignore them.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrExerciseNotFound
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Exercise{})
	if result.Error != nil {
		return fmt.Errorf("delete exercise %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

// List returns one page of the whole catalogue and the catalogue size.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]entities.Exercise, int64, error) {
	return r.paginate(ctx, func(db *gorm.DB) *gorm.DB { return db }, limit, offset)
}

// ListByOwner returns one page of the exercises contributed by username.
func (r *Repository) ListByOwner(ctx context.Context, username string, limit, offset int) ([]entities.Exercise, int64, error) {
	return r.paginate(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("exercises.user_name = ?", username)
	}, limit, offset)
}

// ListFavouritedBy returns one page of the exercises username has favourited.
func (r *Repository) ListFavouritedBy(ctx context.Context, username string, limit, offset int) ([]entities.Exercise, int64, error) {
	return r.paginate(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN favourites ON favourites.exercise_id = exercises.id").
			Where("favourites.user_name = ?", username)
	}, limit, offset)
}

// Count returns the number of live exercises.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Exercise{}).Count(&count).Error
	return count, err
}

// Search returns every live exercise accepted by the matcher.
func (r *Repository) Search(ctx context.Context, matcher search.Matcher) ([]entities.Exercise, error) {
	var results []entities.Exercise
	err := r.db.WithContext(ctx).
		Scopes(matcher.Scope()).
		Order(listOrder).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("search exercises: %w", err)
	}
	return results, nil
}

// PurgeDeleted permanently removes exercises soft-deleted before the cutoff,
// together with their favourite rows. Returns the number of exercises removed.
func (r *Repository) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	var purged int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		err := tx.Unscoped().Model(&entities.Exercise{}).
			Where("deleted_at IS NOT NULL AND deleted_at < ?", before).
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("exercise_id IN ?", ids).Delete(&entities.Favourite{}).Error; err != nil {
			return err
		}

		result := tx.Unscoped().Where("id IN ?", ids).Delete(&entities.Exercise{})
		if result.Error != nil {
			return result.Error
		}
		purged = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("purge deleted exercises: %w", err)
	}
	return purged, nil
}

func (r *Repository) paginate(ctx context.Context, scope func(*gorm.DB) *gorm.DB, limit, offset int) ([]entities.Exercise, int64, error) {
	var exercises []entities.Exercise
	var total int64

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&entities.Exercise{}).Scopes(scope)
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count exercises: %w", err)
	}

	query := base().Order(listOrder)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&exercises).Error; err != nil {
		return nil, 0, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, total, nil
}
