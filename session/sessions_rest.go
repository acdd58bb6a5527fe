package session

import (
	"net/http"
	"studioboard/bizerror"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionsHandler struct {
	store      Store
	auth       Authenticator
	expiration time.Duration
}

func RegisterSessionsHandler(r *gin.Engine, store Store, auth Authenticator, expiration time.Duration) {
	h := &sessionsHandler{store: store, auth: auth, expiration: expiration}
	g := r.Group("/v1/sessions")
	g.POST("", h.login)
	g.DELETE("", h.logout)

	r.GET("/v1/session", SimpleAuthFilter(store), h.detail)
}

func (h *sessionsHandler) login(c *gin.Context) {
	login := LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	user, err := h.auth.Authenticate(c.Request.Context(), login.Username, login.Password)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, Sign(c, h.store, user, h.expiration))
}

func (h *sessionsHandler) logout(c *gin.Context) {
	token, _ := c.Cookie(KeySecToken) // ErrNoCookie
	if token != "" {
		if err := h.store.Remove(c.Request.Context(), token); err != nil {
			panic(err)
		}
	}
	c.SetCookie(KeySecToken, "", -1, "/", "", false, false)
	c.AbortWithStatus(http.StatusNoContent)
}

// detail refreshes the identity from the user record so role changes apply
// to an open session.
func (h *sessionsHandler) detail(c *gin.Context) {
	s := ExtractSessionFromGinContext(c)

	ttl := h.expiration - time.Since(s.SigningTime)
	if ttl <= 0 {
		panic(bizerror.ErrUnauthenticated)
	}
	user, err := h.auth.Detail(s.Context, s.Identity.ID)
	if err != nil {
		_ = h.store.Remove(s.Context, s.Token)
		panic(bizerror.ErrUnauthenticated)
	}
	s.Identity = IdentityOf(user)
	if err := h.store.Set(s.Context, s, ttl); err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, s)
}
