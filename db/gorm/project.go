package gorm

import (
	"errors"

	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/project"
	stdgorm "gorm.io/gorm"
)

type projectRow struct {
	ID          uint64          `gorm:"primaryKey"`
	Name        string
	Description string
	UserID      taskdash.UserID `gorm:"type:varchar(255);index"`
}

func (projectRow) TableName() string { return "projects" }

func (r projectRow) project() project.Project {
	return project.Project{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		UserID:      r.UserID,
	}
}

type projectRepository struct {
	db *stdgorm.DB
}

func NewProjectRepository(db *stdgorm.DB) project.ProjectRepository {
	return &projectRepository{db}
}

func (p projectRepository) Create(name, description string, userID taskdash.UserID) (project.Project, error) {
	row := projectRow{Name: name, Description: description, UserID: userID}
	result := p.db.Create(&row)

	return row.project(), result.Error
}

func (p projectRepository) FindAll(userID taskdash.UserID) ([]project.Project, error) {
	var rows []projectRow
	if err := p.db.Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	projects := make([]project.Project, 0, len(rows))
	for _, r := range rows {
		projects = append(projects, r.project())
	}
	return projects, nil
}

func (p projectRepository) Find(projectID uint64) (project.Project, error) {
	row, err := p.find(p.db, projectID)
	if err != nil {
		return project.Project{}, err
	}
	return row.project(), nil
}

func (p projectRepository) find(db *stdgorm.DB, projectID uint64) (projectRow, error) {
	var row projectRow
	err := db.First(&row, projectID).Error
	if errors.Is(err, stdgorm.ErrRecordNotFound) {
		return projectRow{}, project.ErrNotFound
	}
	return row, err
}

func (p projectRepository) Update(in project.Project) (project.Project, error) {
	row, err := p.find(p.db, in.ID)
	if err != nil {
		return project.Project{}, err
	}

	result := p.db.Model(&row).Updates(
		map[string]interface{}{
			"name":        in.Name,
			"description": in.Description,
		})
	if result.Error != nil {
		return project.Project{}, result.Error
	}

	row.Name, row.Description = in.Name, in.Description
	return row.project(), nil
}

// Delete removes the project together with its tasks and their watchlist
// entries.
func (p projectRepository) Delete(projectID uint64) (project.Project, error) {
	var deleted projectRow
	err := p.db.Transaction(func(tx *stdgorm.DB) error {
		row, err := p.find(tx, projectID)
		if err != nil {
			return err
		}

		tasks := tx.Model(&taskRow{}).Select("id").Where("project_id = ?", projectID)
		if err := tx.Where("task_id IN (?)", tasks).Delete(&watchRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&taskRow{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&row).Error; err != nil {
			return err
		}

		deleted = row
		return nil
	})
	if err != nil {
		return project.Project{}, err
	}
	return deleted.project(), nil
}
