package handler

import (
	"net/http"

	"kanba/internal/model"
	"kanba/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ColumnHandler struct {
	columns repository.ColumnRepositoryInterface
}

func NewColumnHandler(columns repository.ColumnRepositoryInterface) *ColumnHandler {
	return &ColumnHandler{columns: columns}
}

type CreateColumnRequest struct {
	ProjectID string `json:"project_id" binding:"required,uuid"`
	Name      string `json:"name" binding:"required"`
	Color     string `json:"color"`
}

type UpdateColumnRequest struct {
	ID    string `json:"id" binding:"required,uuid"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type ColumnResponse struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	Position  int    `json:"position"`
	IsSystem  bool   `json:"is_system"`
}

func columnResponse(column *model.Column) ColumnResponse {
	return ColumnResponse{
		ID:        column.ID.String(),
		ProjectID: column.ProjectID.String(),
		Name:      column.Name,
		Color:     column.Color,
		Position:  column.Position,
		IsSystem:  column.IsSystem,
	}
}

// Create appends a column at the end of the project's board.
func (h *ColumnHandler) Create(c *gin.Context) {
	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID and name are required"})
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	maxPosition, err := h.columns.GetMaxPosition(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to determine column position"})
		return
	}

	column := &model.Column{
		ID:        uuid.New(),
		ProjectID: projectID,
		Name:      req.Name,
		Color:     req.Color,
		Position:  maxPosition + 1,
	}

	if err := h.columns.Create(c.Request.Context(), column); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create column"})
		return
	}

	c.JSON(http.StatusOK, columnResponse(column))
}

// Update renames or recolors a column; fields left out keep their value.
func (h *ColumnHandler) Update(c *gin.Context) {
	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Column ID is required"})
		return
	}

	columnID, err := uuid.Parse(req.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}

	column, err := h.columns.GetByID(c.Request.Context(), columnID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve column"})
		return
	}
	if column == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
		return
	}

	if req.Name != "" {
		column.Name = req.Name
	}
	if req.Color != "" {
		column.Color = req.Color
	}

	if err := h.columns.Update(c.Request.Context(), column); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update column"})
		return
	}

	c.JSON(http.StatusOK, columnResponse(column))
}

// Delete removes a column and its tasks. System columns ("To Do",
// "Done") are refused by their flag, not by matching the name, so a
// renamed system column stays protected.
func (h *ColumnHandler) Delete(c *gin.Context) {
	columnID, err := uuid.Parse(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Column ID is required"})
		return
	}

	column, err := h.columns.GetByID(c.Request.Context(), columnID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve column"})
		return
	}
	if column == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
		return
	}

	if column.IsSystem {
		c.JSON(http.StatusBadRequest, gin.H{"error": "System columns cannot be deleted"})
		return
	}

	if err := h.columns.Delete(c.Request.Context(), columnID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete column"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
