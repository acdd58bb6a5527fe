package project_test

import (
	"context"
	"studioboard/bizerror"
	"studioboard/docstore"
	"studioboard/domain"
	"studioboard/domain/project"
	"studioboard/session"
	"studioboard/testinfra"
	"time"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

const (
	architectID types.ID = 1001
	designerID  types.ID = 1002
	strangerID  types.ID = 1003
)

var _ = Describe("ProjectManager", func() {
	var (
		testDatabase *testinfra.TestDatabase
		manager      *project.ProjectManager
		changes      []docstore.Change
		adminSec     *session.Session
		architectSec *session.Session
		designerSec  *session.Session
		strangerSec  *session.Session
		created      *domain.Project
	)

	BeforeEach(func() {
		testDatabase = testinfra.StartTestDatabase("studioboard")
		Expect(testDatabase.DB().AutoMigrate(&domain.Project{}).Error).To(BeNil())
		hub := docstore.NewHub()
		changes = nil
		hub.Subscribe(docstore.CollectionProjects, func(c *docstore.Change) error {
			changes = append(changes, *c)
			return nil
		})
		manager = project.NewProjectManager(testDatabase.DS, hub)
		manager.Now = func() time.Time { return time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC) }

		adminSec = testinfra.BuildSession(1, domain.RoleAdmin)
		architectSec = testinfra.BuildSession(architectID, domain.RoleArchitect)
		designerSec = testinfra.BuildSession(designerID, domain.RoleDesigner)
		strangerSec = testinfra.BuildSession(strangerID, domain.RoleArchitect)

		var err error
		created, err = manager.CreateProject(&domain.ProjectCreation{Name: "Квартира на Тверской",
			ArchitectID: architectID, DesignerID: designerID}, adminSec)
		Expect(err).To(BeNil())
	})
	AfterEach(func() {
		testinfra.StopTestDatabase(testDatabase)
	})

	Describe("CreateProject", func() {
		It("should fill the defaults and publish the change", func() {
			Expect(created.ID).ToNot(BeZero())
			Expect(created.Stage).To(Equal(domain.StageQueue))
			Expect(created.StartDate).To(Equal("2024-05-10"))
			Expect(created.EndDate).To(Equal("2024-06-09"))
			Expect(changes).To(Equal([]docstore.Change{
				{Kind: docstore.ChangeCreated, Collection: docstore.CollectionProjects, ID: created.ID}}))

			stored, err := manager.LoadProjects(context.Background())
			Expect(err).To(BeNil())
			Expect(len(stored)).To(Equal(1))
			Expect(stored[0].Name).To(Equal("Квартира на Тверской"))
		})

		It("should be reserved to administrators", func() {
			_, err := manager.CreateProject(&domain.ProjectCreation{Name: "x"}, architectSec)
			Expect(err).To(Equal(bizerror.ErrForbidden))
		})

		It("should reject invalid records", func() {
			_, err := manager.CreateProject(&domain.ProjectCreation{Name: "x", StartDate: "10.05.2024"}, adminSec)
			Expect(err).To(HaveOccurred())
			_, ok := err.(*bizerror.ErrInvalidRecord)
			Expect(ok).To(BeTrue())
		})
	})

	Describe("QueryProjects and DetailProject", func() {
		It("should scope projects to the viewer", func() {
			for _, sec := range []*session.Session{adminSec, architectSec, designerSec} {
				ps, err := manager.QueryProjects(sec)
				Expect(err).To(BeNil())
				Expect(len(ps)).To(Equal(1))
			}
			ps, err := manager.QueryProjects(strangerSec)
			Expect(err).To(BeNil())
			Expect(ps).To(BeEmpty())

			ps, err = manager.QueryProjects(testinfra.BuildSession(architectID, domain.RoleClient))
			Expect(err).To(BeNil())
			Expect(ps).To(BeEmpty())
		})

		It("should forbid the detail of an invisible project", func() {
			_, err := manager.DetailProject(created.ID, strangerSec)
			Expect(err).To(Equal(bizerror.ErrForbidden))

			p, err := manager.DetailProject(created.ID, designerSec)
			Expect(err).To(BeNil())
			Expect(p.Name).To(Equal(created.Name))

			_, err = manager.DetailProject(404, adminSec)
			Expect(err).To(Equal(bizerror.ErrNotFound))
		})
	})

	Describe("UpdateProject", func() {
		It("should let an architect move the schedule of an own project", func() {
			stage := domain.StageMounting
			mounting := "2024-05-20"
			p, err := manager.UpdateProject(created.ID, &domain.ProjectPatch{Stage: &stage,
				Dates: &domain.ProjectDatesPatch{Mounting: &mounting}}, architectSec)
			Expect(err).To(BeNil())
			Expect(p.Stage).To(Equal(domain.StageMounting))
			Expect(p.Dates.Mounting).To(Equal("2024-05-20"))
			Expect(p.Name).To(Equal(created.Name))
			Expect(changes[len(changes)-1]).To(Equal(docstore.Change{Kind: docstore.ChangeUpdated,
				Collection: docstore.CollectionProjects, ID: created.ID}))
		})

		It("should reject a patch touching a forbidden group as a whole", func() {
			task := "новое ТЗ"
			name := "renamed"
			_, err := manager.UpdateProject(created.ID, &domain.ProjectPatch{TechnicalTask: &task, Name: &name}, designerSec)
			Expect(err).To(Equal(bizerror.ErrForbidden))

			p, err := manager.DetailProject(created.ID, adminSec)
			Expect(err).To(BeNil())
			Expect(p.Name).To(Equal(created.Name))
			Expect(p.TechnicalTask).To(BeEmpty())
		})

		It("should reject patches on projects outside the visible set", func() {
			task := "новое ТЗ"
			_, err := manager.UpdateProject(created.ID, &domain.ProjectPatch{TechnicalTask: &task}, strangerSec)
			Expect(err).To(Equal(bizerror.ErrForbidden))
		})

		It("should keep the stored record when the merge is invalid", func() {
			end := "someday"
			_, err := manager.UpdateProject(created.ID, &domain.ProjectPatch{EndDate: &end}, adminSec)
			Expect(err).To(HaveOccurred())

			p, err := manager.DetailProject(created.ID, adminSec)
			Expect(err).To(BeNil())
			Expect(p.EndDate).To(Equal("2024-06-09"))
		})

		It("should merge sub-records field by field", func() {
			area := 80.5
			_, err := manager.UpdateProject(created.ID, &domain.ProjectPatch{
				Financials: &domain.ProjectFinancialsPatch{Area: &area}}, adminSec)
			Expect(err).To(BeNil())
			cost := 1500.0
			p, err := manager.UpdateProject(created.ID, &domain.ProjectPatch{
				Financials: &domain.ProjectFinancialsPatch{CostPerMeterStudio: &cost}}, adminSec)
			Expect(err).To(BeNil())
			Expect(p.Financials.Area).To(Equal(80.5))
			Expect(p.Financials.CostPerMeterStudio).To(Equal(1500.0))
		})
	})

	Describe("DeleteProject", func() {
		It("should delete as administrator only", func() {
			Expect(manager.DeleteProject(created.ID, architectSec)).To(Equal(bizerror.ErrForbidden))
			Expect(manager.DeleteProject(created.ID, adminSec)).To(BeNil())
			Expect(manager.DeleteProject(created.ID, adminSec)).To(Equal(bizerror.ErrNotFound))
			Expect(changes[len(changes)-1].Kind).To(Equal(docstore.ChangeDeleted))
		})
	})

	Describe("sharing", func() {
		It("should expose the client view without participants or money", func() {
			task := "ТЗ"
			src := "https://disk.example/src"
			_, err := manager.UpdateProject(created.ID, &domain.ProjectPatch{TechnicalTask: &task,
				Links: &domain.ProjectLinksPatch{Source: &src}}, designerSec)
			Expect(err).To(BeNil())

			view, err := manager.SharedProject(context.Background(), created.ID)
			Expect(err).To(BeNil())
			Expect(*view).To(Equal(project.SharedProject{ID: created.ID, Name: created.Name,
				Stage: domain.StageQueue, TechnicalTask: "ТЗ", Links: domain.ProjectLinks{Source: src}}))
		})

		It("should build a share link per project for administrators", func() {
			links, err := manager.ShareLinks("https://board.example/share", adminSec)
			Expect(err).To(BeNil())
			Expect(links).To(Equal([]project.ShareLink{{ProjectID: created.ID, Name: created.Name,
				URL: "https://board.example/share?project=" + created.ID.String()}}))

			_, err = manager.ShareLinks("https://board.example/share", designerSec)
			Expect(err).To(Equal(bizerror.ErrForbidden))
			_, err = manager.ShareLinks("https://board.example/share", &session.Session{})
			Expect(err).To(Equal(bizerror.ErrUnauthenticated))
		})

		It("should give architects the links of their own projects", func() {
			links, err := manager.ShareLinks("https://board.example/share", architectSec)
			Expect(err).To(BeNil())
			Expect(links).To(Equal([]project.ShareLink{{ProjectID: created.ID, Name: created.Name,
				URL: "https://board.example/share?project=" + created.ID.String()}}))

			links, err = manager.ShareLinks("https://board.example/share", strangerSec)
			Expect(err).To(BeNil())
			Expect(links).To(BeEmpty())
		})

		It("should keep existing query parameters of the base url", func() {
			Expect(project.ShareURL("https://board.example/?lang=ru", 42)).
				To(Equal("https://board.example/?lang=ru&project=" + types.ID(42).String()))
		})
	})
})
