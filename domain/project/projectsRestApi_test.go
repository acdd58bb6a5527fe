package project_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"studioboard/bizerror"
	"studioboard/domain"
	"studioboard/domain/project"
	"studioboard/session"
	"studioboard/testinfra"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ProjectsRestApi", func() {
	var (
		router          *gin.Engine
		testDatabase    *testinfra.TestDatabase
		manager         *project.ProjectManager
		store           *session.CacheStore
		adminCookie     *http.Cookie
		architectCookie *http.Cookie
		designerCookie  *http.Cookie
		first, second   *domain.Project
	)

	BeforeEach(func() {
		testDatabase = testinfra.StartTestDatabase("studioboard")
		Expect(testDatabase.DB().AutoMigrate(&domain.Project{}).Error).To(BeNil())
		manager = project.NewProjectManager(testDatabase.DS, nil)
		project.Clock = func() time.Time { return time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC) }

		store = session.NewCacheStore(time.Hour)
		adminSec := testinfra.BuildSession(1, domain.RoleAdmin)
		adminCookie = testinfra.SignIn(store, adminSec)
		architectCookie = testinfra.SignIn(store, testinfra.BuildSession(architectID, domain.RoleArchitect))
		designerCookie = testinfra.SignIn(store, testinfra.BuildSession(designerID, domain.RoleDesigner))

		var err error
		first, err = manager.CreateProject(&domain.ProjectCreation{Name: "first", StartDate: "2024-03-01",
			EndDate: "2024-03-20", Stage: domain.StageFinish, ArchitectID: architectID, DesignerID: designerID}, adminSec)
		Expect(err).To(BeNil())
		second, err = manager.CreateProject(&domain.ProjectCreation{Name: "second", StartDate: "2024-03-05",
			EndDate: "2024-04-01", Stage: domain.StageStart, ArchitectID: architectID}, adminSec)
		Expect(err).To(BeNil())

		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		project.RegisterProjectsRestApis(router, manager, session.SimpleAuthFilter(store))
		project.RegisterShareRestApis(router, manager, "https://board.example/share", session.SimpleAuthFilter(store))
	})
	AfterEach(func() {
		project.Clock = time.Now
		testinfra.StopTestDatabase(testDatabase)
	})

	request := func(method, path, body string, cookie *http.Cookie) (int, string) {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		if cookie != nil {
			req.AddCookie(cookie)
		}
		status, respBody, _ := testinfra.ExecuteRequest(req, router)
		return status, respBody
	}

	Describe("query", func() {
		It("should sort the visible set by stage on demand", func() {
			status, body := request(http.MethodGet, "/v1/projects?sort=stage&order=asc", "", architectCookie)
			Expect(status).To(Equal(http.StatusOK))
			Expect(strings.Index(body, `"name":"second"`)).To(BeNumerically("<", strings.Index(body, `"name":"first"`)))

			status, body = request(http.MethodGet, "/v1/projects?sort=stage&order=desc", "", architectCookie)
			Expect(status).To(Equal(http.StatusOK))
			Expect(strings.Index(body, `"name":"first"`)).To(BeNumerically("<", strings.Index(body, `"name":"second"`)))
		})

		It("should only list assigned projects", func() {
			status, body := request(http.MethodGet, "/v1/projects", "", designerCookie)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"name":"first"`))
			Expect(body).ToNot(ContainSubstring(`"name":"second"`))
		})

		It("should reject unknown sort keys", func() {
			status, body := request(http.MethodGet, "/v1/projects?sort=name", "", adminCookie)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring(`"code":"common.bad_param"`))
		})

		It("should require a session", func() {
			status, _ := request(http.MethodGet, "/v1/projects", "", nil)
			Expect(status).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("create, update and delete", func() {
		It("should create projects as administrator", func() {
			status, body := request(http.MethodPost, "/v1/projects", `{"name":"third"}`, adminCookie)
			Expect(status).To(Equal(http.StatusCreated))
			Expect(body).To(ContainSubstring(`"stage":"В очереди"`))

			status, _ = request(http.MethodPost, "/v1/projects", `{"name":"fourth"}`, architectCookie)
			Expect(status).To(Equal(http.StatusForbidden))

			status, _ = request(http.MethodPost, "/v1/projects", `{}`, adminCookie)
			Expect(status).To(Equal(http.StatusBadRequest))
		})

		It("should apply the permission matrix to patches", func() {
			status, body := request(http.MethodPatch, "/v1/projects/"+first.ID.String(),
				`{"links":{"pdf":"https://disk.example/pdf"}}`, designerCookie)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"pdf":"https://disk.example/pdf"`))

			status, _ = request(http.MethodPatch, "/v1/projects/"+first.ID.String(), `{"stage":"Монтаж"}`, designerCookie)
			Expect(status).To(Equal(http.StatusForbidden))

			status, _ = request(http.MethodPatch, "/v1/projects/"+second.ID.String(), `{"technicalTask":"x"}`, designerCookie)
			Expect(status).To(Equal(http.StatusForbidden))

			status, body = request(http.MethodPatch, "/v1/projects/"+first.ID.String(), `{"endDate":"2024-13-40"}`, adminCookie)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring(`"code":"common.invalid_record"`))
		})

		It("should delete as administrator", func() {
			status, _ := request(http.MethodDelete, "/v1/projects/"+second.ID.String(), "", architectCookie)
			Expect(status).To(Equal(http.StatusForbidden))
			status, _ = request(http.MethodDelete, "/v1/projects/"+second.ID.String(), "", adminCookie)
			Expect(status).To(Equal(http.StatusNoContent))
			status, _ = request(http.MethodGet, "/v1/projects/"+second.ID.String(), "", adminCookie)
			Expect(status).To(Equal(http.StatusNotFound))
		})

		It("should reject malformed ids", func() {
			status, _ := request(http.MethodGet, "/v1/projects/abc", "", adminCookie)
			Expect(status).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("calendar", func() {
		It("should render the current month by default", func() {
			status, body := request(http.MethodGet, "/v1/projects/"+first.ID.String()+"/calendar", "", architectCookie)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"month":"2024-03"`))
			Expect(body).To(ContainSubstring(`"leadingBlanks":4`))
			Expect(body).To(ContainSubstring(`{"date":"2024-03-12","day":12,"treatment":"today"`))
		})

		It("should render the requested month", func() {
			status, body := request(http.MethodGet, "/v1/projects/"+second.ID.String()+"/calendar?month=2024-04", "", adminCookie)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"month":"2024-04"`))
			Expect(body).To(ContainSubstring(`{"date":"2024-04-01","day":1,"treatment":"boundary"`))
		})

		It("should reject malformed months and invisible projects", func() {
			status, _ := request(http.MethodGet, "/v1/projects/"+first.ID.String()+"/calendar?month=march", "", adminCookie)
			Expect(status).To(Equal(http.StatusBadRequest))
			status, _ = request(http.MethodGet, "/v1/projects/"+second.ID.String()+"/calendar", "", designerCookie)
			Expect(status).To(Equal(http.StatusForbidden))
		})
	})

	Describe("sharing", func() {
		It("should serve the shared view without a session", func() {
			status, body := request(http.MethodGet, "/v1/shared-projects/"+first.ID.String(), "", nil)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"name":"first"`))
			Expect(body).ToNot(ContainSubstring(`financials`))
			Expect(body).ToNot(ContainSubstring(`architectId`))

			status, _ = request(http.MethodGet, "/v1/shared-projects/12345", "", nil)
			Expect(status).To(Equal(http.StatusNotFound))
		})

		It("should list share links for administrators and architects", func() {
			status, body := request(http.MethodGet, "/v1/project-links", "", adminCookie)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"url":"https://board.example/share?project=` + first.ID.String() + `"`))

			status, body = request(http.MethodGet, "/v1/project-links", "", architectCookie)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"url":"https://board.example/share?project=` + second.ID.String() + `"`))

			status, _ = request(http.MethodGet, "/v1/project-links", "", designerCookie)
			Expect(status).To(Equal(http.StatusForbidden))
			status, _ = request(http.MethodGet, "/v1/project-links", "", nil)
			Expect(status).To(Equal(http.StatusUnauthorized))
		})
	})
})
