package dashboard

import (
	"net/http"
	"studioboard/bizerror"
	"studioboard/domain"
	"studioboard/finance"
	"studioboard/session"
	"time"

	"github.com/gin-gonic/gin"
)

// Clock is the time source of the dashboard view.
var Clock = time.Now

func RegisterDashboardRestApis(r *gin.Engine, s *State, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1", middleWares...)
	g.GET("/dashboard", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Dashboard(viewerOf(c), Clock()))
	})
	g.GET("/finances", func(c *gin.Context) {
		viewer := viewerOf(c)
		if !viewer.IsAdmin() {
			panic(bizerror.ErrForbidden)
		}
		users, projects := s.Snapshot()
		c.JSON(http.StatusOK, finance.BuildLedger(projects, users))
	})
	g.GET("/checks", func(c *gin.Context) {
		viewer := viewerOf(c)
		users, projects := s.Snapshot()
		c.JSON(http.StatusOK, finance.BuildChecks(domain.VisibleProjects(viewer, projects), users, viewer.Role))
	})
}

func viewerOf(c *gin.Context) *domain.User {
	viewer := session.ExtractSessionFromGinContext(c).Viewer()
	if viewer == nil {
		panic(bizerror.ErrUnauthenticated)
	}
	return viewer
}
