package session

import (
	"net/http"
	"studioboard/bizerror"
	"studioboard/domain"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Token login signs a user in by id alone, no secret is checked. It exists
// for shared links to internal staff and is off unless explicitly enabled.

type tokenLoginHandler struct {
	store      Store
	auth       Authenticator
	expiration time.Duration
}

// RegisterTokenLoginHandler mounts GET /v1/token-sessions?user=<id>. When
// disabled the route answers with security.token_login_disabled.
func RegisterTokenLoginHandler(r *gin.Engine, enabled bool, store Store, auth Authenticator, expiration time.Duration) {
	if !enabled {
		r.GET("/v1/token-sessions", func(c *gin.Context) {
			panic(bizerror.ErrTokenLoginDisabled)
		})
		return
	}
	logrus.Warn("insecure token login is enabled")
	h := &tokenLoginHandler{store: store, auth: auth, expiration: expiration}
	r.GET("/v1/token-sessions", h.login)
}

func (h *tokenLoginHandler) login(c *gin.Context) {
	id, err := types.ParseID(c.Query("user"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	user, err := h.auth.Detail(c.Request.Context(), id)
	if err != nil {
		panic(bizerror.ErrUnauthenticated)
	}
	if user.Role == domain.RoleClient {
		panic(bizerror.ErrForbidden)
	}
	logrus.WithFields(logrus.Fields{"user": user.ID, "username": user.Username, "remote": c.ClientIP()}).
		Warn("insecure token login")
	c.JSON(http.StatusOK, Sign(c, h.store, user, h.expiration))
}
