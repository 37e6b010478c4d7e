package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"kanba/internal/middleware"
	"kanba/internal/model"
	"kanba/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	projects repository.ProjectRepositoryInterface
	members  repository.MemberRepositoryInterface
	columns  repository.ColumnRepositoryInterface
	tasks    repository.TaskRepositoryInterface
	users    repository.UserRepositoryInterface
}

func NewProjectHandler(
	projects repository.ProjectRepositoryInterface,
	members repository.MemberRepositoryInterface,
	columns repository.ColumnRepositoryInterface,
	tasks repository.TaskRepositoryInterface,
	users repository.UserRepositoryInterface,
) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		members:  members,
		columns:  columns,
		tasks:    tasks,
		users:    users,
	}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

type ProjectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	OwnerID     string `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
}

// ColumnDetail is a column with its tasks nested, as the board renders it.
type ColumnDetail struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Color     string         `json:"color,omitempty"`
	Position  int            `json:"position"`
	IsSystem  bool           `json:"is_system"`
	TaskCount int            `json:"task_count"`
	Tasks     []TaskResponse `json:"tasks"`
}

func projectResponse(project *model.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID.String(),
		Name:        project.Name,
		Description: project.Description,
		Icon:        project.Icon,
		OwnerID:     project.OwnerID.String(),
		CreatedAt:   project.CreatedAt.Format(time.RFC3339),
	}
}

// GetAll lists the caller's projects with task and member counts.
func (h *ProjectHandler) GetAll(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	projects, err := h.projects.GetForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}
	if projects == nil {
		projects = []repository.ProjectSummary{}
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Create creates a project owned by the caller, seeded with the owner
// membership and the two system columns.
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project name is required"})
		return
	}

	project := &model.Project{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		OwnerID:     userID,
	}

	if err := h.projects.CreateWithDefaults(c.Request.Context(), project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": project.ID.String(), "success": true})
}

// GetByID returns the project with its columns, the tasks grouped under
// each column, and the member list. Columns, tasks and members are three
// independent queries composed here. Non-members get a 404 so project
// ids cannot be probed.
func (h *ProjectHandler) GetByID(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	project, err := h.projects.GetByID(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	isMember, err := h.members.IsMember(c.Request.Context(), projectID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if !isMember {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	columns, err := h.columns.GetByProjectID(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve columns"})
		return
	}

	tasks, err := h.tasks.GetByProjectID(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	members, err := h.members.List(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}
	if members == nil {
		members = []repository.MemberInfo{}
	}

	tasksByColumn := make(map[uuid.UUID][]TaskResponse)
	for _, task := range tasks {
		tasksByColumn[task.ColumnID] = append(tasksByColumn[task.ColumnID], taskResponse(&task))
	}

	details := make([]ColumnDetail, len(columns))
	for i, column := range columns {
		columnTasks := tasksByColumn[column.ID]
		if columnTasks == nil {
			columnTasks = []TaskResponse{}
		}
		details[i] = ColumnDetail{
			ID:        column.ID.String(),
			Name:      column.Name,
			Color:     column.Color,
			Position:  column.Position,
			IsSystem:  column.IsSystem,
			TaskCount: len(columnTasks),
			Tasks:     columnTasks,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"project": projectResponse(project),
		"columns": details,
		"members": members,
	})
}

// Delete removes the project and everything under it. Only the owner may
// do this; the check lives in the repository so it holds for any caller.
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	err = h.projects.Delete(c.Request.Context(), projectID, userID)
	switch {
	case errors.Is(err, repository.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, repository.ErrNotProjectOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the project owner can delete this project"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// Invite adds a registered user to the project as a member. The caller
// must already be a member themselves.
func (h *ProjectHandler) Invite(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var req InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	isMember, err := h.members.IsMember(c.Request.Context(), projectID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this project"})
		return
	}

	invitee, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if invitee == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found with that email"})
		return
	}

	role := req.Role
	if role == "" {
		role = model.RoleMember
	}

	err = h.members.Add(c.Request.Context(), projectID, invitee.ID, role)
	if errors.Is(err, repository.ErrAlreadyMember) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member of this project"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
