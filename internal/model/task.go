package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Task priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ColumnID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	Priority    string         `gorm:"not null;default:'medium';check:priority IN ('low', 'medium', 'high')"`
	AssigneeID  *uuid.UUID     `gorm:"type:uuid"`
	DueDate     *time.Time
	Tags        pq.StringArray `gorm:"type:text[]"`
	Position    int            `gorm:"not null"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`

	Column   Column `gorm:"foreignKey:ColumnID"`
	Assignee *User  `gorm:"foreignKey:AssigneeID"`
	Creator  User   `gorm:"foreignKey:CreatedBy"`
}
