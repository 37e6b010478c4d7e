package model

import (
	"github.com/google/uuid"
)

// Default columns seeded into every new project. They carry IsSystem so
// deletion can be refused without matching on the name.
const (
	SystemColumnTodo = "To Do"
	SystemColumnDone = "Done"
)

type Column struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	Color     string
	Position  int  `gorm:"not null"`
	IsSystem  bool `gorm:"not null;default:false"`

	Project Project `gorm:"foreignKey:ProjectID"`
}
