package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/company-management/internal/audit"
	auditpg "github.com/frahmantamala/company-management/internal/audit/postgres"
	taskDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/task"
	"github.com/frahmantamala/company-management/internal/task"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) WithinTransaction(ctx context.Context, fn func(repo task.RepositoryAPI, auditor audit.Writer) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TaskRepository{db: tx}, auditpg.NewWriter(tx))
	})
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*taskDatamodel.Task, error) {
	var t taskDatamodel.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *taskDatamodel.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TaskRepository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&taskDatamodel.Task{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *TaskRepository) UpdateAssignment(ctx context.Context, taskID, assigneeID string, departmentID *string) error {
	return r.db.WithContext(ctx).
		Model(&taskDatamodel.Task{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"assigned_to_id": assigneeID,
			"department_id":  departmentID,
		}).Error
}

func (r *TaskRepository) ListActive(ctx context.Context, companyIDs []string) ([]*taskDatamodel.Task, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if companyIDs != nil {
		q = q.Where("company_id IN ?", companyIDs)
	}

	var tasks []*taskDatamodel.Task
	err := q.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}
