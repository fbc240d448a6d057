package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/gymlife/internal/config"
	"github.com/mrlokans/gymlife/internal/entities"
)

var defaultMuscles = []string{
	"Abdominals", "Biceps", "Calves", "Chest", "Forearms", "Glutes",
	"Hamstrings", "Lats", "Lower Back", "Quadriceps", "Shoulders", "Triceps",
}

var defaultExerciseTypes = []string{
	"Cardio", "Olympic Weightlifting", "Plyometrics", "Powerlifting", "Strength", "Stretching",
}

var defaultMechanics = []string{"Compound", "Isolation"}

var defaultEquipment = []string{
	"Bands", "Barbell", "Body Only", "Cable", "Dumbbell", "Kettlebell", "Machine", "Medicine Ball",
}

var defaultDifficultyLevels = []string{"Beginner", "Intermediate", "Advanced"}

// Database owns the connection shared by all repositories.
type Database struct {
	DB     *gorm.DB
	Driver config.DatabaseDriver
}

// NewDatabase opens (or creates) a sqlite database at dbPath.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(config.Database{Driver: config.DatabaseDriverSQLite, Path: dbPath})
}

// Open connects using the configured driver, migrates the schema and seeds
// the lookup tables.
func Open(cfg config.Database) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Exercise{},
		&entities.Favourite{},
		&entities.AuditEvent{},
		&entities.Muscle{},
		&entities.ExerciseType{},
		&entities.Mechanic{},
		&entities.Equipment{},
		&entities.DifficultyLevel{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db, Driver: cfg.Driver}

	if err := database.seedLookups(); err != nil {
		return nil, fmt.Errorf("failed to seed lookups: %w", err)
	}
	if err := database.backfillSearchText(); err != nil {
		return nil, fmt.Errorf("failed to backfill search text: %w", err)
	}

	log.Printf("Database initialized successfully (%s)", cfg.Driver)

	return database, nil
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DatabaseDriverSQLite, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite database path is not set")
		}
		// Foreign keys on, and a busy timeout so request goroutines wait for the
		// single sqlite writer instead of failing.
		return sqlite.Open(cfg.Path + "?_foreign_keys=on&_busy_timeout=5000"), nil
	case config.DatabaseDriverPostgres:
		if cfg.URL == "" {
			return nil, fmt.Errorf("postgres connection string is not set")
		}
		return postgres.Open(cfg.URL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database is reachable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) seedLookups() error {
	for _, name := range defaultMuscles {
		if err := seedOne(d.DB, &entities.Muscle{Name: name}); err != nil {
			return err
		}
	}
	for _, name := range defaultExerciseTypes {
		if err := seedOne(d.DB, &entities.ExerciseType{Name: name}); err != nil {
			return err
		}
	}
	for _, name := range defaultMechanics {
		if err := seedOne(d.DB, &entities.Mechanic{Name: name}); err != nil {
			return err
		}
	}
	for _, name := range defaultEquipment {
		if err := seedOne(d.DB, &entities.Equipment{Name: name}); err != nil {
			return err
		}
	}
	for _, name := range defaultDifficultyLevels {
		if err := seedOne(d.DB, &entities.DifficultyLevel{Name: name}); err != nil {
			return err
		}
	}
	return nil
}

// backfillSearchText fills search_text for rows written before the column
// existed. A filled value always contains separators, so it is never empty.
func (d *Database) backfillSearchText() error {
	var stale []entities.Exercise
	if err := d.DB.Unscoped().Where("search_text IS NULL OR search_text = ''").Find(&stale).Error; err != nil {
		return err
	}
	for i := range stale {
		err := d.DB.Unscoped().Model(&entities.Exercise{}).
			Where("id = ?", stale[i].ID).
			UpdateColumn("search_text", stale[i].BuildSearchText()).Error
		if err != nil {
			return err
		}
	}
	if len(stale) > 0 {
		log.Printf("Backfilled search text for %d exercises", len(stale))
	}
	return nil
}

// seedOne inserts a lookup row unless one with the same name already exists.
// value must be a pointer to a lookup entity with a Name field.
func seedOne(db *gorm.DB, value any) error {
	result := db.Where(value).FirstOrCreate(value)
	if result.Error != nil {
		return fmt.Errorf("failed to seed %T: %w", value, result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Seeded %T", value)
	}
	return nil
}
