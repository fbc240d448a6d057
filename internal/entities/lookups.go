package entities

// Lookup tables only feed the select inputs of the exercise forms.

type Muscle struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100" json:"name"`
}

type ExerciseType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100" json:"name"`
}

type Mechanic struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100" json:"name"`
}

type Equipment struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100" json:"name"`
}

type DifficultyLevel struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100" json:"name"`
}

func (Muscle) TableName() string          { return "muscles" }
func (ExerciseType) TableName() string    { return "types_of_exercise" }
func (Mechanic) TableName() string        { return "mechanics" }
func (Equipment) TableName() string       { return "equipment" }
func (DifficultyLevel) TableName() string { return "difficulty" }

// Choices groups every lookup list needed to render an exercise form.
type Choices struct {
	Muscles          []Muscle
	TypesOfExercise  []ExerciseType
	Mechanics        []Mechanic
	Equipment        []Equipment
	DifficultyLevels []DifficultyLevel
}
