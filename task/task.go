package task

import (
	"errors"
	"time"

	"github.com/ichigozero/taskdash"
)

const (
	StatusIncomplete = "Incomplete"
	StatusComplete   = "Complete"

	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

type Task struct {
	ID          uint64          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	Deadline    time.Time       `json:"deadline"`
	ProjectID   uint64          `json:"projectId"`
	UserID      taskdash.UserID `json:"userId"`
}

type TaskRepository interface {
	Create(task Task) (Task, error)
	FindAll(projectID uint64) ([]Task, error)
	Find(taskID uint64) (Task, error)
	Delete(taskID uint64) (Task, error)
}

// ValidPriority reports whether p is one of the priorities the API accepts.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("task not found")
)
