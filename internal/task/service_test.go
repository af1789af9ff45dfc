package task_test

import (
	"context"
	"net/http"
	"sync"
	"time"

	companyPostgres "github.com/frahmantamala/company-management/internal/company/postgres"
	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	taskDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"github.com/frahmantamala/company-management/internal/core/events"
	"github.com/frahmantamala/company-management/internal/core/testdb"
	departmentPostgres "github.com/frahmantamala/company-management/internal/department/postgres"
	"github.com/frahmantamala/company-management/internal/policy"
	"github.com/frahmantamala/company-management/internal/task"
	taskPostgres "github.com/frahmantamala/company-management/internal/task/postgres"
	"github.com/frahmantamala/company-management/internal/user"
	userPostgres "github.com/frahmantamala/company-management/internal/user/postgres"
	"github.com/frahmantamala/company-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

var _ = Describe("Task Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		fx        *testdb.Fixtures
		published *recordingPublisher
		service   *task.Service
		acme      *companyDatamodel.Company
		globex    *companyDatamodel.Company
		manager   *user.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = testdb.MustOpen()
		fx = testdb.NewFixtures(db)
		published = &recordingPublisher{}

		users := userPostgres.NewUserRepository(db)
		service = task.NewService(
			taskPostgres.NewTaskRepository(db),
			companyPostgres.NewCompanyRepository(db),
			departmentPostgres.NewDepartmentRepository(db),
			users,
			policy.NewAuthorizer(users, logger.Discard()),
			published,
			logger.Discard(),
		)

		acme = fx.Company("Acme", 0)
		globex = fx.Company("Globex", 0)
		manager = user.FromDataModel(fx.Member(string(user.RoleManager), acme))
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	Describe("Create", func() {
		It("defaults to TODO and MEDIUM", func() {
			created, err := service.Create(ctx, manager, task.CreateTaskDTO{Title: "Ship it", CompanyID: acme.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Status).To(Equal(task.StatusTodo))
			Expect(created.Priority).To(Equal(task.PriorityMedium))
			Expect(created.AssignedToID).To(BeNil())
			Expect(published.types()).To(BeEmpty())
		})

		It("assigns the department head when a department is given", func() {
			head := fx.Member(string(user.RoleEmployee), acme)
			dept := fx.Department(acme.ID, "Engineering", &head.ID)

			created, err := service.Create(ctx, manager, task.CreateTaskDTO{
				Title:        "Ship it",
				CompanyID:    acme.ID,
				DepartmentID: &dept.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*created.AssignedToID).To(Equal(head.ID))
			Expect(published.types()).To(ConsistOf(events.EventTypeTaskAssigned))
		})

		It("rejects a department without a head", func() {
			dept := fx.Department(acme.ID, "Engineering", nil)

			_, err := service.Create(ctx, manager, task.CreateTaskDTO{
				Title:        "Ship it",
				CompanyID:    acme.ID,
				DepartmentID: &dept.ID,
			})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(Equal("Department has no head assigned"))
			Expect(fx.Count(&taskDatamodel.Task{})).To(BeZero())
		})

		It("rejects an assignee outside the company", func() {
			outsider := fx.Member(string(user.RoleEmployee), globex)

			_, err := service.Create(ctx, manager, task.CreateTaskDTO{
				Title:        "Ship it",
				CompanyID:    acme.ID,
				AssignedToID: &outsider.ID,
			})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(Equal("Assigned user is not associated with this company"))
		})

		It("rejects a company the actor does not belong to", func() {
			_, err := service.Create(ctx, manager, task.CreateTaskDTO{Title: "Ship it", CompanyID: globex.ID})
			Expect(testdb.Status(err)).To(Equal(http.StatusForbidden))
		})

		It("rejects an unknown priority", func() {
			_, err := service.Create(ctx, manager, task.CreateTaskDTO{Title: "Ship it", CompanyID: acme.ID, Priority: "SOMEDAY"})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("AssignDepartment", func() {
		var (
			original *userDatamodel.User
			existing *taskDatamodel.Task
		)

		BeforeEach(func() {
			original = fx.Member(string(user.RoleEmployee), acme)
			existing = fx.Task(acme.ID, manager.ID, &original.ID)
		})

		It("rejects a department without a head and keeps the assignee", func() {
			headless := fx.Department(acme.ID, "Engineering", nil)

			_, err := service.AssignDepartment(ctx, manager, task.AssignDepartmentDTO{
				TaskID:       existing.ID,
				DepartmentID: headless.ID,
				CompanyID:    acme.ID,
			})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(Equal("Department has no head assigned"))

			var reloaded taskDatamodel.Task
			fx.Reload(&reloaded, existing.ID)
			Expect(reloaded.AssignedToID).NotTo(BeNil())
			Expect(*reloaded.AssignedToID).To(Equal(original.ID))
			Expect(reloaded.DepartmentID).To(BeNil())
			Expect(published.types()).To(BeEmpty())
		})

		It("hands the task to the department head", func() {
			head := fx.Member(string(user.RoleEmployee), acme)
			dept := fx.Department(acme.ID, "Engineering", &head.ID)

			updated, err := service.AssignDepartment(ctx, manager, task.AssignDepartmentDTO{
				TaskID:       existing.ID,
				DepartmentID: dept.ID,
				CompanyID:    acme.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*updated.AssignedToID).To(Equal(head.ID))
			Expect(*updated.DepartmentID).To(Equal(dept.ID))
		})

		It("rejects a company that does not own the task", func() {
			dept := fx.Department(globex.ID, "Sales", nil)

			_, err := service.AssignDepartment(ctx, manager, task.AssignDepartmentDTO{
				TaskID:       existing.ID,
				DepartmentID: dept.ID,
				CompanyID:    globex.ID,
			})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(Equal("Task does not belong to the specified company"))
		})
	})

	Describe("AssignUser", func() {
		It("sets the assignee and clears the department", func() {
			head := fx.Member(string(user.RoleEmployee), acme)
			dept := fx.Department(acme.ID, "Engineering", &head.ID)
			existing := fx.Task(acme.ID, manager.ID, &head.ID)
			Expect(db.Model(existing).Update("department_id", dept.ID).Error).To(Succeed())
			other := fx.Member(string(user.RoleEmployee), acme)

			updated, err := service.AssignUser(ctx, manager, task.AssignUserDTO{
				TaskID: existing.ID, UserID: other.ID, CompanyID: acme.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*updated.AssignedToID).To(Equal(other.ID))
			Expect(updated.DepartmentID).To(BeNil())
			Expect(published.types()).To(ConsistOf(events.EventTypeTaskAssigned))
		})

		It("returns 404 for an unknown assignee", func() {
			existing := fx.Task(acme.ID, manager.ID, nil)

			_, err := service.AssignUser(ctx, manager, task.AssignUserDTO{
				TaskID: existing.ID, UserID: "missing", CompanyID: acme.ID,
			})
			Expect(testdb.Status(err)).To(Equal(http.StatusNotFound))
		})
	})

	Describe("Delete", func() {
		It("soft deletes and then reports the task as missing", func() {
			existing := fx.Task(acme.ID, manager.ID, nil)

			Expect(service.Delete(ctx, manager, existing.ID)).To(Succeed())

			var reloaded taskDatamodel.Task
			fx.Reload(&reloaded, existing.ID)
			Expect(reloaded.IsActive).To(BeFalse())

			err := service.Delete(ctx, manager, existing.ID)
			Expect(testdb.Status(err)).To(Equal(http.StatusNotFound))
			Expect(err.Error()).To(Equal("Task not found or is inactive"))
		})
	})

	Describe("List", func() {
		It("returns the actor's company tasks newest first", func() {
			older := fx.Task(acme.ID, manager.ID, nil)
			Expect(db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error).To(Succeed())
			newer := fx.Task(acme.ID, manager.ID, nil)
			fx.Task(globex.ID, manager.ID, nil)

			tasks, err := service.List(ctx, manager, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(2))
			Expect(tasks[0].ID).To(Equal(newer.ID))
			Expect(tasks[1].ID).To(Equal(older.ID))
		})

		It("rejects a foreign company filter", func() {
			_, err := service.List(ctx, manager, globex.ID)
			Expect(testdb.Status(err)).To(Equal(http.StatusForbidden))
		})
	})
})
