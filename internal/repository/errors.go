package repository

import "errors"

// Common repository errors
var (
	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = errors.New("project not found")

	// ErrColumnNotFound is returned when a column is not found
	ErrColumnNotFound = errors.New("column not found")

	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrNotProjectOwner is returned when a destructive project operation
	// is attempted by someone other than the owner
	ErrNotProjectOwner = errors.New("only the project owner can do this")

	// ErrAlreadyMember is returned when inviting a user who already has
	// a membership row for the project
	ErrAlreadyMember = errors.New("user is already a member of this project")
)
