package account

import (
	"net/http"
	"studioboard/bizerror"
	"studioboard/common"
	"studioboard/domain"
	"studioboard/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterUsersHandler(r *gin.Engine, m UserManagerTraits, middleWares ...gin.HandlerFunc) {
	h := &usersHandler{m: m}
	g := r.Group("/v1/users", middleWares...)
	g.GET("", h.query)
	g.POST("", h.create)
	g.PATCH(":id", h.update)
	g.DELETE(":id", h.delete)
}

type usersHandler struct {
	m UserManagerTraits
}

// query gives administrators full records and everybody else the directory
// cards.
func (h *usersHandler) query(c *gin.Context) {
	sec := session.ExtractSessionFromGinContext(c)
	users, err := h.m.QueryUsers(sec)
	if err != nil {
		panic(err)
	}
	if sec.IsAdmin() {
		c.JSON(http.StatusOK, users)
		return
	}
	cards := make([]domain.UserCard, 0, len(users))
	for i := range users {
		cards = append(cards, users[i].Card())
	}
	c.JSON(http.StatusOK, cards)
}

func (h *usersHandler) create(c *gin.Context) {
	creation := domain.UserCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	user, err := h.m.CreateUser(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, user)
}

func (h *usersHandler) update(c *gin.Context) {
	id, err := common.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	patch := domain.UserPatch{}
	if err := c.ShouldBindBodyWith(&patch, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	user, err := h.m.UpdateUser(id, &patch, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, user)
}

func (h *usersHandler) delete(c *gin.Context) {
	id, err := common.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.m.DeleteUser(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
