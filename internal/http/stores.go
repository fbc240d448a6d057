package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/gymlife/internal/entities"
	"github.com/mrlokans/gymlife/internal/search"
)

// This file consolidates all store interface definitions used by HTTP controllers.

// ExerciseStore is the exercise catalogue as seen by the page handlers.
type ExerciseStore interface {
	Create(ctx context.Context, exercise *entities.Exercise) error
	GetByID(ctx context.Context, id string) (*entities.Exercise, error)
	Update(ctx context.Context, id string, fields *entities.Exercise) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]entities.Exercise, int64, error)
	ListByOwner(ctx context.Context, username string, limit, offset int) ([]entities.Exercise, int64, error)
	ListFavouritedBy(ctx context.Context, username string, limit, offset int) ([]entities.Exercise, int64, error)
	Search(ctx context.Context, matcher search.Matcher) ([]entities.Exercise, error)
}

// FavouritesStore provides the favourite relation between users and exercises.
type FavouritesStore interface {
	Toggle(ctx context.Context, username, exerciseID string) (bool, error)
	IsFavourite(ctx context.Context, username, exerciseID string) (bool, error)
	FavouritedBy(ctx context.Context, exerciseID string) ([]string, error)
	FavouriteIDs(ctx context.Context, username string) ([]string, error)
}

// LookupStore provides the select choices of the exercise forms.
type LookupStore interface {
	All(ctx context.Context) (entities.Choices, error)
}

// Flasher stores one-shot messages shown on the next rendered page.
type Flasher interface {
	AddFlash(ctx context.Context, message string)
	PopFlashes(ctx context.Context) []string
}

// TaskQueue enqueues background tasks and reports on them.
type TaskQueue interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// Auditor records catalogue changes. Implementations must not block.
type Auditor interface {
	LogExercise(username string, action entities.AuditAction, exercise *entities.Exercise)
}

// AuditLog reads back recorded catalogue changes.
type AuditLog interface {
	GetEvents(ctx context.Context, username string, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsForExercise(ctx context.Context, exerciseID string) ([]entities.AuditEvent, error)
}

// Pinger reports whether the database answers.
type Pinger interface {
	Ping() error
}
