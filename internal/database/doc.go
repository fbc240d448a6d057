// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, lookup seeding
//	├── exercises/       # Exercise CRUD, listings, search, purge
//	├── favourites/      # The user/exercise favourite relation
//	├── lookups/         # Form choices (muscles, equipment, ...)
//	└── users/           # User records
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./gym-life.db")
//
//	exerciseRepo := exercises.NewRepository(db.DB)
//	favouriteRepo := favourites.NewRepository(db.DB)
//
//	page := pagination.Paginate(total, 6, 1)
//	list, total, err := exerciseRepo.List(ctx, page.Limit, page.Offset)
//
// # Favourites
//
// A favourite is a single row keyed by (user_name, exercise_id). The user's
// favourite set and the exercise's favourited-by set are both queries over
// that table, so the two views cannot drift apart.
package database
