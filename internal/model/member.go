package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectMember grants a user access to a project. One row per
// (project, user); the owner's row is seeded when the project is created.
type ProjectMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_project_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_project_user"`
	Role      string    `gorm:"not null;check:role IN ('owner', 'admin', 'member')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Project Project `gorm:"foreignKey:ProjectID"`
	User    User    `gorm:"foreignKey:UserID"`
}

// Membership roles
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)
