package gorm

import (
	"errors"
	"time"

	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/task"
	stdgorm "gorm.io/gorm"
)

type taskRow struct {
	ID          uint64 `gorm:"primaryKey"`
	Title       string
	Description string
	Status      string
	Priority    string
	Deadline    time.Time
	ProjectID   uint64          `gorm:"index"`
	UserID      taskdash.UserID `gorm:"type:varchar(255)"`
}

func (taskRow) TableName() string { return "tasks" }

func (r taskRow) task() task.Task {
	return task.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		Deadline:    r.Deadline.UTC(),
		ProjectID:   r.ProjectID,
		UserID:      r.UserID,
	}
}

type taskRepository struct {
	db *stdgorm.DB
}

func NewTaskRepository(db *stdgorm.DB) task.TaskRepository {
	return &taskRepository{db}
}

func (t taskRepository) Create(in task.Task) (task.Task, error) {
	row := taskRow{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		Deadline:    in.Deadline.UTC(),
		ProjectID:   in.ProjectID,
		UserID:      in.UserID,
	}
	result := t.db.Create(&row)

	return row.task(), result.Error
}

func (t taskRepository) FindAll(projectID uint64) ([]task.Task, error) {
	var rows []taskRow
	if err := t.db.Where("project_id = ?", projectID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	tasks := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.task())
	}
	return tasks, nil
}

func (t taskRepository) Find(taskID uint64) (task.Task, error) {
	var row taskRow
	err := t.db.First(&row, taskID).Error
	if errors.Is(err, stdgorm.ErrRecordNotFound) {
		return task.Task{}, task.ErrNotFound
	}
	if err != nil {
		return task.Task{}, err
	}
	return row.task(), nil
}

// Delete removes the task and every watchlist entry pointing at it.
func (t taskRepository) Delete(taskID uint64) (task.Task, error) {
	var deleted taskRow
	err := t.db.Transaction(func(tx *stdgorm.DB) error {
		var row taskRow
		err := tx.First(&row, taskID).Error
		if errors.Is(err, stdgorm.ErrRecordNotFound) {
			return task.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", taskID).Delete(&watchRow{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&row).Error; err != nil {
			return err
		}

		deleted = row
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}
	return deleted.task(), nil
}
