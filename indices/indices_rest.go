package indices

import (
	"net/http"
	"studioboard/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	PathIndexRequests = "/v1/index-requests"
	PathProjectSearch = "/v1/project-search"
)

func RegisterIndicesRestAPI(r *gin.Engine, x *ProjectIndexer, middleWares ...gin.HandlerFunc) {
	r.POST(PathIndexRequests, append(append([]gin.HandlerFunc{}, middleWares...), func(c *gin.Context) {
		sec := session.ExtractSessionFromGinContext(c)
		started, err := x.ScheduleFullSync(sec.IsAdmin(), func(err error) {
			if err != nil {
				logrus.Warn("requested full sync finished with errors: ", err)
			}
		})
		if err != nil {
			panic(err)
		}
		c.JSON(http.StatusOK, gin.H{"result": started})
	})...)

	r.GET(PathProjectSearch, append(append([]gin.HandlerFunc{}, middleWares...), func(c *gin.Context) {
		projects, err := x.SearchProjects(c.Query("q"), session.ExtractSessionFromGinContext(c))
		if err != nil {
			panic(err)
		}
		c.JSON(http.StatusOK, projects)
	})...)
}
