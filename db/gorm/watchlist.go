package gorm

import (
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/watchlist"
	stdgorm "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type watchRow struct {
	UserID taskdash.UserID `gorm:"type:varchar(255);primaryKey;autoIncrement:false"`
	TaskID uint64          `gorm:"primaryKey;autoIncrement:false"`
	Task   taskRow         `gorm:"foreignKey:TaskID"`
}

func (watchRow) TableName() string { return "watchlist" }

func (r watchRow) entry() watchlist.Entry {
	e := watchlist.Entry{UserID: r.UserID, TaskID: r.TaskID}
	if r.Task.ID != 0 {
		t := r.Task.task()
		e.Task = &t
	}
	return e
}

type entryRepository struct {
	db *stdgorm.DB
}

func NewEntryRepository(db *stdgorm.DB) watchlist.EntryRepository {
	return &entryRepository{db}
}

// Add inserts the pair unless it exists. The primary key decides, so
// concurrent adds of the same pair yield exactly one entry.
func (e entryRepository) Add(userID taskdash.UserID, taskID uint64) (watchlist.Entry, error) {
	row := watchRow{UserID: userID, TaskID: taskID}
	result := e.db.Omit("Task").Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return watchlist.Entry{}, result.Error
	}
	if result.RowsAffected == 0 {
		return watchlist.Entry{}, watchlist.ErrAlreadyWatched
	}

	if err := e.db.Preload("Task").Where("user_id = ? AND task_id = ?", userID, taskID).First(&row).Error; err != nil {
		return watchlist.Entry{}, err
	}
	return row.entry(), nil
}

func (e entryRepository) FindAll(userID taskdash.UserID) ([]watchlist.Entry, error) {
	var rows []watchRow
	err := e.db.Preload("Task").Where("user_id = ?", userID).Order("task_id").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]watchlist.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

func (e entryRepository) Remove(userID taskdash.UserID, taskID uint64) error {
	result := e.db.Where("user_id = ? AND task_id = ?", userID, taskID).Delete(&watchRow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return watchlist.ErrNotFound
	}
	return nil
}
