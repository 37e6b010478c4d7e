package repository

import (
	"context"
	"errors"

	"kanba/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

// MemberInfo is a membership row joined with the user it belongs to,
// as the project detail view presents members.
type MemberInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

type MemberRepositoryInterface interface {
	IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	List(ctx context.Context, projectID uuid.UUID) ([]MemberInfo, error)
	Add(ctx context.Context, projectID, userID uuid.UUID, role string) error
}

var _ MemberRepositoryInterface = (*MemberRepository)(nil)

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var member model.ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MemberRepository) List(ctx context.Context, projectID uuid.UUID) ([]MemberInfo, error) {
	var members []MemberInfo
	err := r.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Select("users.id, users.name, users.email, project_members.role, users.avatar_url").
		Joins("JOIN users ON users.id = project_members.user_id").
		Where("project_members.project_id = ?", projectID).
		Order("project_members.created_at").
		Scan(&members).Error
	return members, err
}

// Add inserts a membership row. ErrAlreadyMember is returned when the
// (project, user) pair already exists; the check and the insert run in
// one transaction to keep concurrent invites from racing past it.
func (r *MemberRepository) Add(ctx context.Context, projectID, userID uuid.UUID, role string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.ProjectMember
		err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		member := model.ProjectMember{
			ID:        uuid.New(),
			ProjectID: projectID,
			UserID:    userID,
			Role:      role,
		}
		return tx.Create(&member).Error
	})
}
