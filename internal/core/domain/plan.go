package domain

import "time"

// OwnedRecord is a row that belongs to a single user.
type OwnedRecord[T any] interface {
	Record[T]
	GetOwnerID() string
	// Prepare binds the record to ownerID and clears child keys so the
	// record can be (re)inserted as a whole.
	Prepare(ownerID string)
}

// Workout is a training plan made of ordered exercises.
type Workout struct {
	ID        string     `json:"id"        gorm:"type:uuid;primaryKey"`
	UserID    string     `json:"userId"    gorm:"type:uuid;not null;index"`
	Name      string     `json:"name"      gorm:"size:120;not null" validate:"required,max=120"`
	Notes     string     `json:"notes"     gorm:"size:1000"         validate:"max=1000"`
	Exercises []Exercise `json:"exercises" gorm:"constraint:OnDelete:CASCADE" validate:"dive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Exercise is one movement inside a workout.
type Exercise struct {
	ID          uint    `json:"id"          gorm:"primaryKey"`
	WorkoutID   string  `json:"-"           gorm:"type:uuid;not null;index"`
	Position    int     `json:"position"    gorm:"not null"`
	Name        string  `json:"name"        gorm:"size:120;not null" validate:"required,max=120"`
	Sets        int     `json:"sets"                                 validate:"gte=0"`
	Reps        int     `json:"reps"                                 validate:"gte=0"`
	WeightKg    float64 `json:"weightKg"                             validate:"gte=0"`
	RestSeconds int     `json:"restSeconds"                          validate:"gte=0"`
}

func (w *Workout) GetID() string      { return w.ID }
func (w *Workout) SetID(id string)    { w.ID = id }
func (w *Workout) GetOwnerID() string { return w.UserID }

func (w *Workout) Prepare(ownerID string) {
	w.UserID = ownerID
	for i := range w.Exercises {
		w.Exercises[i].ID = 0
		w.Exercises[i].WorkoutID = ""
		w.Exercises[i].Position = i
	}
}

// Diet is a nutrition plan made of meals.
type Diet struct {
	ID        string    `json:"id"        gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"userId"    gorm:"type:uuid;not null;index"`
	Name      string    `json:"name"      gorm:"size:120;not null" validate:"required,max=120"`
	Goal      string    `json:"goal"      gorm:"size:255"          validate:"max=255"`
	Meals     []Meal    `json:"meals"     gorm:"constraint:OnDelete:CASCADE" validate:"dive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Meal is one entry inside a diet.
type Meal struct {
	ID       uint    `json:"id"       gorm:"primaryKey"`
	DietID   string  `json:"-"        gorm:"type:uuid;not null;index"`
	Position int     `json:"position" gorm:"not null"`
	Name     string  `json:"name"     gorm:"size:120;not null" validate:"required,max=120"`
	Calories int     `json:"calories"                          validate:"gte=0"`
	ProteinG float64 `json:"proteinG"                          validate:"gte=0"`
	CarbsG   float64 `json:"carbsG"                            validate:"gte=0"`
	FatG     float64 `json:"fatG"                              validate:"gte=0"`
}

func (d *Diet) GetID() string      { return d.ID }
func (d *Diet) SetID(id string)    { d.ID = id }
func (d *Diet) GetOwnerID() string { return d.UserID }

func (d *Diet) Prepare(ownerID string) {
	d.UserID = ownerID
	for i := range d.Meals {
		d.Meals[i].ID = 0
		d.Meals[i].DietID = ""
		d.Meals[i].Position = i
	}
}

// TotalCalories sums the calories of every meal.
func (d *Diet) TotalCalories() int {
	total := 0
	for _, m := range d.Meals {
		total += m.Calories
	}
	return total
}
