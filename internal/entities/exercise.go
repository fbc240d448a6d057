package entities

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Exercise is a catalogue entry contributed by a user.
// ID is an opaque xid string assigned on insert.
type Exercise struct {
	ID              string         `gorm:"primaryKey;size:20" json:"id"`
	UserName        string         `gorm:"index;size:64" json:"user_name"` // owner, attribution only
	ExerciseName    string         `gorm:"index;size:200" json:"exercise_name"`
	MuscleName      string         `gorm:"size:100" json:"muscle_name"`
	EquipmentType   string         `gorm:"size:100" json:"equipment_type"`
	DifficultyLevel string         `gorm:"size:50" json:"difficulty_level"`
	Mechanics       string         `gorm:"size:50" json:"mechanics"`
	TypeOfExercise  string         `gorm:"size:100" json:"type_of_exercise"`
	Instructions    string         `gorm:"type:text" json:"instructions"`
	SearchText      string         `gorm:"type:text" json:"-"` // lowercased searchable fields, see BuildSearchText
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Exercise) TableName() string {
	return "exercises"
}

// SearchSeparator joins the searchable fields in SearchText. It never occurs
// in form input, so a query cannot match across two fields.
const SearchSeparator = "\x1f"

// SearchFields are the fields a free-text query is matched against.
func (e *Exercise) SearchFields() []string {
	return []string{e.ExerciseName, e.MuscleName, e.EquipmentType, e.DifficultyLevel}
}

// BuildSearchText lowercases the searchable fields with full Unicode case
// folding. SQLite's LOWER() only knows ASCII.
func (e *Exercise) BuildSearchText() string {
	fields := e.SearchFields()
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return strings.Join(fields, SearchSeparator)
}

// BeforeSave keeps SearchText in step with the searchable fields.
func (e *Exercise) BeforeSave(tx *gorm.DB) error {
	e.SearchText = e.BuildSearchText()
	return nil
}

// IsOwnedBy reports whether username contributed the exercise.
func (e *Exercise) IsOwnedBy(username string) bool {
	return username != "" && e.UserName == username
}

// Favourite is the single relation behind both a user's favourite set and an
// exercise's favourited-by set. One row per (user, exercise) pair.
type Favourite struct {
	UserName   string    `gorm:"primaryKey;size:64" json:"user_name"`
	ExerciseID string    `gorm:"primaryKey;size:20;index" json:"exercise_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Favourite) TableName() string {
	return "favourites"
}
