package project

import (
	"net/http"
	"studioboard/bizerror"
	"studioboard/calendar"
	"studioboard/common"
	"studioboard/domain"
	"studioboard/session"
	"studioboard/timeline"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	PathProjects       = "/v1/projects"
	PathProjectLinks   = "/v1/project-links"
	PathSharedProjects = "/v1/shared-projects"
)

// Clock is the time source of the calendar endpoint.
var Clock = time.Now

func RegisterProjectsRestApis(r *gin.Engine, m ProjectManagerTraits, middleWares ...gin.HandlerFunc) {
	h := &projectsHandler{m: m}
	g := r.Group(PathProjects, middleWares...)
	g.GET("", h.query)
	g.POST("", h.create)
	g.GET(":id", h.detail)
	g.PATCH(":id", h.update)
	g.DELETE(":id", h.delete)
	g.GET(":id/calendar", h.calendar)
}

// RegisterShareRestApis mounts the public share view and the list of share
// links built on publicBaseURL for administrators and architects.
func RegisterShareRestApis(r *gin.Engine, m *ProjectManager, publicBaseURL string, middleWares ...gin.HandlerFunc) {
	r.GET(PathSharedProjects+"/:id", func(c *gin.Context) {
		id, err := common.BindingPathID(c)
		if err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
		view, err := m.SharedProject(c.Request.Context(), id)
		if err != nil {
			panic(err)
		}
		c.JSON(http.StatusOK, view)
	})

	links := append(append([]gin.HandlerFunc{}, middleWares...), func(c *gin.Context) {
		result, err := m.ShareLinks(publicBaseURL, session.ExtractSessionFromGinContext(c))
		if err != nil {
			panic(err)
		}
		c.JSON(http.StatusOK, result)
	})
	r.GET(PathProjectLinks, links...)
}

type projectsHandler struct {
	m ProjectManagerTraits
}

type projectQuery struct {
	Sort  string `form:"sort" binding:"omitempty,oneof=stage"`
	Order string `form:"order" binding:"omitempty,oneof=asc desc"`
}

func (h *projectsHandler) query(c *gin.Context) {
	q := projectQuery{}
	if err := c.ShouldBindQuery(&q); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	projects, err := h.m.QueryProjects(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	if q.Sort == "stage" {
		projects = domain.SortByStage(projects, q.Order != "desc")
	}
	c.JSON(http.StatusOK, projects)
}

func (h *projectsHandler) create(c *gin.Context) {
	creation := domain.ProjectCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	p, err := h.m.CreateProject(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, p)
}

func (h *projectsHandler) detail(c *gin.Context) {
	id, err := common.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	p, err := h.m.DetailProject(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, p)
}

func (h *projectsHandler) update(c *gin.Context) {
	id, err := common.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	patch := domain.ProjectPatch{}
	if err := c.ShouldBindBodyWith(&patch, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	p, err := h.m.UpdateProject(id, &patch, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, p)
}

func (h *projectsHandler) delete(c *gin.Context) {
	id, err := common.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.m.DeleteProject(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

// calendar renders one month of the project card, the current month when the
// month parameter is absent.
func (h *projectsHandler) calendar(c *gin.Context) {
	id, err := common.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	now := Clock()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if raw := c.Query("month"); raw != "" {
		parsed, ok := calendar.ParseMonth(raw)
		if !ok {
			panic(&bizerror.ErrBadParam{Cause: &bizerror.ErrInvalidRecord{Entity: "calendar", Field: "month", Reason: "must look like 2006-01"}})
		}
		month = parsed
	}
	p, err := h.m.DetailProject(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, timeline.BuildMonthGrid(p, month.Year(), month.Month(), now))
}
