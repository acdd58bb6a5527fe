package media

import (
	"net/http"
	"studioboard/bizerror"
	"studioboard/common"
	"studioboard/session"

	"github.com/gin-gonic/gin"
)

// RegisterPhotosRestApis mounts the uploads behind middleWares. Reading a
// photo needs no session, covers are shown on the shared project view.
func RegisterPhotosRestApis(r *gin.Engine, m *PhotoManager, middleWares ...gin.HandlerFunc) {
	h := &photosHandler{m: m}
	r.GET(PhotosPath+"*key", h.detail)
	r.PUT("/v1/users/:id/photo", append(append([]gin.HandlerFunc{}, middleWares...), h.uploadUserPhoto)...)
	r.PUT("/v1/projects/:id/cover", append(append([]gin.HandlerFunc{}, middleWares...), h.uploadProjectCover)...)
}

type photosHandler struct {
	m *PhotoManager
}

func (h *photosHandler) detail(c *gin.Context) {
	body, contentType, err := h.m.DetailPhoto(c.Param("key"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.Header("Cache-Control", "max-age=300")
	c.Data(http.StatusOK, contentType, body)
}

func (h *photosHandler) uploadUserPhoto(c *gin.Context) {
	id, err := common.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	user, err := h.m.UploadUserPhoto(id, c.Request.Body, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, user)
}

func (h *photosHandler) uploadProjectCover(c *gin.Context) {
	id, err := common.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	p, err := h.m.UploadProjectCover(id, c.Request.Body, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, p)
}
