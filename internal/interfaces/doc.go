// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - ExerciseStore: Exercise catalogue (internal/http/stores.go)
//   - FavouritesStore: The user/exercise favourite relation (internal/http/stores.go)
//   - LookupStore: Select choices for the exercise forms (internal/http/stores.go)
//   - UserRepository: Accounts and login bookkeeping (internal/auth/service.go)
//
// ## Session Interfaces
//
//   - Flasher: One-shot messages for the next page (internal/http/stores.go)
//   - SessionEnder: Log out (internal/http/users.go)
//
// ## Background Work Interfaces
//
//   - TaskQueue: Enqueue and inspect tasks (internal/http/stores.go)
//   - TaskEnqueuer: What the cron scheduler needs (internal/scheduler/purge.go)
//   - DeletedExercisesPurger: Permanent removal of soft-deleted exercises (internal/tasks/purge_exercises.go)
//   - AuditEventCleaner: Removal of expired audit events (internal/tasks/cleanup_audit.go)
//
// ## Audit Interfaces
//
//   - Auditor: Records exercise changes (internal/http/stores.go)
//   - AuditLog: Reads recorded changes back for the exercise and account pages (internal/http/stores.go)
//
// # Adding a New Background Task
//
//  1. Define the task and its queue in internal/tasks/
//
//     type RecountFavouritesTask struct{}
//
//     func (t RecountFavouritesTask) Config() backlite.QueueConfig {
//         return backlite.QueueConfig{Name: RecountFavouritesQueue, MaxAttempts: 3}
//     }
//
//     func NewRecountFavouritesQueue(store FavouriteCounter) backlite.Queue {
//         return backlite.NewQueue[RecountFavouritesTask](processor)
//     }
//
//  2. Register the queue in entrypoint.go
//
//  3. Accept it in TasksController.RunTask if it may be triggered over HTTP
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
