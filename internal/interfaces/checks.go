package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/gymlife/internal/audit"
	"github.com/mrlokans/gymlife/internal/auth"
	"github.com/mrlokans/gymlife/internal/database"
	auditRepo "github.com/mrlokans/gymlife/internal/database/audit"
	"github.com/mrlokans/gymlife/internal/database/exercises"
	"github.com/mrlokans/gymlife/internal/database/favourites"
	"github.com/mrlokans/gymlife/internal/database/lookups"
	"github.com/mrlokans/gymlife/internal/database/users"
	"github.com/mrlokans/gymlife/internal/http"
	"github.com/mrlokans/gymlife/internal/scheduler"
	"github.com/mrlokans/gymlife/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.ExerciseStore = (*exercises.Repository)(nil)
var _ http.FavouritesStore = (*favourites.Repository)(nil)
var _ http.LookupStore = (*lookups.Repository)(nil)
var _ http.Pinger = (*database.Database)(nil)
var _ auth.UserRepository = (*users.Repository)(nil)
var _ audit.EventStore = (*auditRepo.Repository)(nil)

// =============================================================================
// Sessions
// =============================================================================

var _ http.Flasher = (*auth.SessionManager)(nil)
var _ http.SessionEnder = (*auth.SessionManager)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.TaskEnqueuer = (*tasks.Client)(nil)
var _ tasks.DeletedExercisesPurger = (*exercises.Repository)(nil)
var _ tasks.DeletedExercisesPurger = (*audit.RecordingPurger)(nil)
var _ audit.Purger = (*exercises.Repository)(nil)
var _ tasks.AuditEventCleaner = (*auditRepo.Repository)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ http.Auditor = (*audit.Service)(nil)
var _ http.AuditLog = (*auditRepo.Repository)(nil)
