package project

import (
	"errors"

	"github.com/ichigozero/taskdash"
)

type Project struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UserID      taskdash.UserID `json:"userId"`
}

type ProjectRepository interface {
	Create(name, description string, userID taskdash.UserID) (Project, error)
	FindAll(userID taskdash.UserID) ([]Project, error)
	Find(projectID uint64) (Project, error)
	Update(project Project) (Project, error)
	Delete(projectID uint64) (Project, error)
}

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("project not found")
)
