package task

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/audit"
	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	departmentDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/department"
	taskDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"github.com/frahmantamala/company-management/internal/core/events"
	"github.com/frahmantamala/company-management/internal/user"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id string) (*taskDatamodel.Task, error)
	Create(ctx context.Context, t *taskDatamodel.Task) error
	SoftDelete(ctx context.Context, id string) error
	// UpdateAssignment sets the assignee and department together. A nil
	// departmentID clears the department.
	UpdateAssignment(ctx context.Context, taskID, assigneeID string, departmentID *string) error
	// ListActive returns active tasks of the given companies, newest first.
	// A nil companyIDs means every company.
	ListActive(ctx context.Context, companyIDs []string) ([]*taskDatamodel.Task, error)
	WithinTransaction(ctx context.Context, fn func(repo RepositoryAPI, auditor audit.Writer) error) error
}

type CompanyReaderAPI interface {
	GetByID(ctx context.Context, id string) (*companyDatamodel.Company, error)
}

type DepartmentReaderAPI interface {
	GetByID(ctx context.Context, id string) (*departmentDatamodel.Department, error)
}

type UserReaderAPI interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
}

type AuthorizerAPI interface {
	EnsureCompanyAccess(ctx context.Context, actor *user.User, companyID string) error
	ScopeToCompany(ctx context.Context, actor *user.User, companyID string) ([]string, error)
	IsMember(ctx context.Context, userID, companyID string) (bool, error)
}

type Service struct {
	repo        RepositoryAPI
	companies   CompanyReaderAPI
	departments DepartmentReaderAPI
	users       UserReaderAPI
	authorizer  AuthorizerAPI
	publisher   events.Publisher
	logger      *slog.Logger
}

func NewService(
	repo RepositoryAPI,
	companies CompanyReaderAPI,
	departments DepartmentReaderAPI,
	users UserReaderAPI,
	authorizer AuthorizerAPI,
	publisher events.Publisher,
	logger *slog.Logger,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:        repo,
		companies:   companies,
		departments: departments,
		users:       users,
		authorizer:  authorizer,
		publisher:   publisher,
		logger:      logger,
	}
}

var (
	errInvalidCompany      = errors.NewValidationError("Invalid or inactive company ID", errors.ErrCodeCompanyNotFound)
	errInvalidDepartment   = errors.NewValidationError("Invalid or inactive department ID", errors.ErrCodeDepartmentNotFound)
	errDepartmentMismatch  = errors.NewValidationError("Department does not belong to the specified company", errors.ErrCodeBusinessRule)
	errTaskCompanyMismatch = errors.NewValidationError("Task does not belong to the specified company", errors.ErrCodeBusinessRule)
	errInvalidAssignee     = errors.NewValidationError("Invalid or inactive assigned user ID", errors.ErrCodeUserNotFound)
	errAssigneeNotMember   = errors.NewValidationError("Assigned user is not associated with this company", errors.ErrCodeNotMember)
	errTaskNotFound        = errors.NewNotFoundError("Task not found or is inactive", errors.ErrCodeTaskNotFound)
	errAssigneeNotFound    = errors.NewNotFoundError("Assigned user not found or is inactive", errors.ErrCodeUserNotFound)
	errDepartmentNotFound  = errors.NewNotFoundError("Department not found or is inactive", errors.ErrCodeDepartmentNotFound)
)

// Create adds a TODO task. Naming a department assigns the task to the
// department's head, so a department without a head is rejected.
func (s *Service) Create(ctx context.Context, actor *user.User, dto CreateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.companies.GetByID(ctx, dto.CompanyID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load company", err)
	}
	if c == nil || !c.IsActive {
		return nil, errInvalidCompany
	}
	if err := s.authorizer.EnsureCompanyAccess(ctx, actor, dto.CompanyID); err != nil {
		return nil, err
	}

	assigneeID := dto.AssignedToID
	if dto.DepartmentID != nil {
		dept, err := s.departments.GetByID(ctx, *dto.DepartmentID)
		if err != nil {
			return nil, errors.NewInternalError("failed to load department", err)
		}
		if dept == nil || !dept.IsActive {
			return nil, errInvalidDepartment
		}
		if dept.CompanyID != dto.CompanyID {
			return nil, errDepartmentMismatch
		}
		if dept.HeadOfDeptID == nil || *dept.HeadOfDeptID == "" {
			return nil, errors.ErrNoDepartmentHead
		}
		assigneeID = dept.HeadOfDeptID
	}

	if assigneeID != nil {
		if err := s.checkAssignee(ctx, *assigneeID, dto.CompanyID, errInvalidAssignee); err != nil {
			return nil, err
		}
	}

	row := &taskDatamodel.Task{
		ID:             uuid.NewString(),
		Title:          dto.Title,
		Description:    dto.Description,
		Status:         string(StatusTodo),
		Priority:       string(dto.Priority),
		StartDate:      dto.StartDate,
		DueDate:        dto.DueDate,
		EstimatedHours: dto.EstimatedHours,
		CompanyID:      dto.CompanyID,
		DepartmentID:   dto.DepartmentID,
		AssignedToID:   assigneeID,
		CreatedByID:    actor.ID,
		IsActive:       true,
	}

	err = s.repo.WithinTransaction(ctx, func(repo RepositoryAPI, auditor audit.Writer) error {
		if err := repo.Create(ctx, row); err != nil {
			return err
		}
		return auditor.Record(ctx, audit.Entry{
			Action:      audit.ActionCreate,
			Table:       row.TableName(),
			RecordID:    row.ID,
			NewData:     FromDataModel(row),
			Description: "Task created",
			CompanyID:   row.CompanyID,
			UserID:      actor.ID,
		})
	})
	if err != nil {
		return nil, s.txError(ctx, "failed to create task", err)
	}

	s.logger.InfoContext(ctx, "task created", "task_id", row.ID, "company_id", row.CompanyID, "created_by", actor.ID)
	if assigneeID != nil {
		s.publishAssigned(ctx, row.ID, row.CompanyID, *assigneeID, row.DepartmentID, actor.ID)
	}
	return FromDataModel(row), nil
}

// Delete deactivates the task. Inactive tasks are not found.
func (s *Service) Delete(ctx context.Context, actor *user.User, taskID string) error {
	t, err := s.activeTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.authorizer.EnsureCompanyAccess(ctx, actor, t.CompanyID); err != nil {
		return err
	}

	err = s.repo.WithinTransaction(ctx, func(repo RepositoryAPI, auditor audit.Writer) error {
		if err := repo.SoftDelete(ctx, t.ID); err != nil {
			return err
		}
		return auditor.Record(ctx, audit.Entry{
			Action:      audit.ActionDelete,
			Table:       t.TableName(),
			RecordID:    t.ID,
			OldData:     FromDataModel(t),
			Description: "Task deleted",
			CompanyID:   t.CompanyID,
			UserID:      actor.ID,
		})
	})
	if err != nil {
		return s.txError(ctx, "failed to delete task", err)
	}

	s.logger.InfoContext(ctx, "task deleted", "task_id", t.ID, "deleted_by", actor.ID)
	return nil
}

// AssignUser reassigns the task to one user and detaches it from any
// department.
func (s *Service) AssignUser(ctx context.Context, actor *user.User, dto AssignUserDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t, err := s.activeTask(ctx, dto.TaskID)
	if err != nil {
		return nil, err
	}
	if t.CompanyID != dto.CompanyID {
		return nil, errTaskCompanyMismatch
	}
	if err := s.authorizer.EnsureCompanyAccess(ctx, actor, dto.CompanyID); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, dto.UserID, dto.CompanyID, errAssigneeNotFound); err != nil {
		return nil, err
	}

	if err := s.reassign(ctx, actor, t, dto.UserID, nil); err != nil {
		return nil, err
	}
	return FromDataModel(t), nil
}

// AssignDepartment hands the task to the department's current head. When the
// department has no head nothing is written and the previous assignee stays.
func (s *Service) AssignDepartment(ctx context.Context, actor *user.User, dto AssignDepartmentDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t, err := s.activeTask(ctx, dto.TaskID)
	if err != nil {
		return nil, err
	}
	if t.CompanyID != dto.CompanyID {
		return nil, errTaskCompanyMismatch
	}

	dept, err := s.departments.GetByID(ctx, dto.DepartmentID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load department", err)
	}
	if dept == nil || !dept.IsActive {
		return nil, errDepartmentNotFound
	}
	if dept.CompanyID != dto.CompanyID {
		return nil, errDepartmentMismatch
	}
	if dept.HeadOfDeptID == nil || *dept.HeadOfDeptID == "" {
		return nil, errors.ErrNoDepartmentHead
	}
	if err := s.authorizer.EnsureCompanyAccess(ctx, actor, dto.CompanyID); err != nil {
		return nil, err
	}

	departmentID := dept.ID
	if err := s.reassign(ctx, actor, t, *dept.HeadOfDeptID, &departmentID); err != nil {
		return nil, err
	}
	return FromDataModel(t), nil
}

// List returns active tasks visible to the actor, newest first.
func (s *Service) List(ctx context.Context, actor *user.User, companyID string) ([]*Task, error) {
	if companyID != "" && actor.IsSuperAdmin() {
		c, err := s.companies.GetByID(ctx, companyID)
		if err != nil {
			return nil, errors.NewInternalError("failed to load company", err)
		}
		if c == nil || !c.IsActive {
			return nil, errInvalidCompany
		}
	}

	companyIDs, err := s.authorizer.ScopeToCompany(ctx, actor, companyID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListActive(ctx, companyIDs)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list tasks", "actor_id", actor.ID, "error", err)
		return nil, errors.NewInternalError("failed to fetch tasks", err)
	}

	tasks := make([]*Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, FromDataModel(row))
	}
	return tasks, nil
}

func (s *Service) reassign(ctx context.Context, actor *user.User, t *taskDatamodel.Task, assigneeID string, departmentID *string) error {
	oldData := map[string]interface{}{"assignedToId": t.AssignedToID, "departmentId": t.DepartmentID}
	newData := map[string]interface{}{"assignedToId": assigneeID, "departmentId": departmentID}

	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI, auditor audit.Writer) error {
		if err := repo.UpdateAssignment(ctx, t.ID, assigneeID, departmentID); err != nil {
			return err
		}
		return auditor.Record(ctx, audit.Entry{
			Action:      audit.ActionUpdate,
			Table:       t.TableName(),
			RecordID:    t.ID,
			OldData:     oldData,
			NewData:     newData,
			Description: "Task assigned",
			CompanyID:   t.CompanyID,
			UserID:      actor.ID,
		})
	})
	if err != nil {
		return s.txError(ctx, "failed to assign task", err)
	}

	t.AssignedToID = &assigneeID
	t.DepartmentID = departmentID

	s.logger.InfoContext(ctx, "task assigned",
		"task_id", t.ID, "assignee_id", assigneeID, "assigned_by", actor.ID)
	s.publishAssigned(ctx, t.ID, t.CompanyID, assigneeID, departmentID, actor.ID)
	return nil
}

func (s *Service) activeTask(ctx context.Context, taskID string) (*taskDatamodel.Task, error) {
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load task", err)
	}
	if t == nil || !t.IsActive {
		return nil, errTaskNotFound
	}
	return t, nil
}

// checkAssignee requires an active user who is a member of the company.
// missing is returned when the user is unknown or inactive.
func (s *Service) checkAssignee(ctx context.Context, userID, companyID string, missing error) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return errors.NewInternalError("failed to load user", err)
	}
	if u == nil || !u.IsActive {
		return missing
	}

	member, err := s.authorizer.IsMember(ctx, userID, companyID)
	if err != nil {
		return err
	}
	if !member {
		return errAssigneeNotMember
	}
	return nil
}

func (s *Service) publishAssigned(ctx context.Context, taskID, companyID, assigneeID string, departmentID *string, actorID string) {
	event := events.NewTaskAssignedEvent(taskID, companyID, assigneeID, departmentID, actorID)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish task assigned event", "task_id", taskID, "error", err)
	}
}

func (s *Service) txError(ctx context.Context, msg string, err error) error {
	if _, ok := errors.IsAppError(err); ok {
		return err
	}
	s.logger.ErrorContext(ctx, msg, "error", err)
	return errors.NewInternalError(msg, err)
}
