package watchlist

import (
	"errors"

	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/task"
)

// Entry is a task saved by a user. The pair (UserID, TaskID) identifies it.
type Entry struct {
	UserID taskdash.UserID `json:"userId"`
	TaskID uint64          `json:"taskId"`
	Task   *task.Task      `json:"task,omitempty"`
}

type EntryRepository interface {
	Add(userID taskdash.UserID, taskID uint64) (Entry, error)
	FindAll(userID taskdash.UserID) ([]Entry, error)
	Remove(userID taskdash.UserID, taskID uint64) error
}

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyWatched  = errors.New("task is already in the watchlist")
	ErrNotFound        = errors.New("watchlist entry not found")
)
