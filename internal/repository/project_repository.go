package repository

import (
	"context"
	"errors"

	"kanba/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

// ProjectSummary is one row of the project list: the project plus the
// counts the sidebar shows.
type ProjectSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	TaskCount   int       `json:"task_count"`
	MemberCount int       `json:"member_count"`
	CreatedAt   string    `json:"created_at"`
}

type ProjectRepositoryInterface interface {
	CreateWithDefaults(ctx context.Context, project *model.Project) error
	GetForUser(ctx context.Context, userID uuid.UUID) ([]ProjectSummary, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
}

var _ ProjectRepositoryInterface = (*ProjectRepository)(nil)

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// CreateWithDefaults creates the project together with the owner's
// membership row and the two system columns, all in one transaction so a
// half-seeded project can never be observed.
func (r *ProjectRepository) CreateWithDefaults(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		owner := model.ProjectMember{
			ID:        uuid.New(),
			ProjectID: project.ID,
			UserID:    project.OwnerID,
			Role:      model.RoleOwner,
		}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}

		columns := []model.Column{
			{ID: uuid.New(), ProjectID: project.ID, Name: model.SystemColumnTodo, Position: 0, IsSystem: true},
			{ID: uuid.New(), ProjectID: project.ID, Name: model.SystemColumnDone, Position: 1, IsSystem: true},
		}
		return tx.Create(&columns).Error
	})
}

// GetForUser lists every project the user is a member of, annotated with
// task and member counts.
func (r *ProjectRepository) GetForUser(ctx context.Context, userID uuid.UUID) ([]ProjectSummary, error) {
	var summaries []ProjectSummary
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Select(`projects.id, projects.name, projects.description, projects.icon,
			projects.owner_id, projects.created_at,
			(SELECT COUNT(*) FROM tasks JOIN columns ON tasks.column_id = columns.id
				WHERE columns.project_id = projects.id) AS task_count,
			(SELECT COUNT(*) FROM project_members pm2
				WHERE pm2.project_id = projects.id) AS member_count`).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.created_at").
		Scan(&summaries).Error
	return summaries, err
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// Delete removes the project if ownerID really owns it. The foreign keys
// cascade to columns, tasks and memberships.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.Where("id = ?", id).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}
		if project.OwnerID != ownerID {
			return ErrNotProjectOwner
		}
		return tx.Delete(&model.Project{}, "id = ?", id).Error
	})
}
