package testinfra

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"studioboard/domain"
	"studioboard/session"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExecuteRequest serves req and returns the status code and body.
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, *http.Response) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	resp := w.Result()
	defer func() {
		_ = resp.Body.Close()
	}()
	bodyBytes, _ := ioutil.ReadAll(resp.Body)
	return resp.StatusCode, string(bodyBytes), resp
}

// BuildSession builds a signed-in session for a user with the given role.
func BuildSession(uid types.ID, role domain.Role) *session.Session {
	return &session.Session{
		Token:       uuid.New().String(),
		Identity:    session.Identity{ID: uid, Username: "user" + uid.String(), Role: role},
		SigningTime: time.Now(),
		Context:     context.Background(),
	}
}

// SignIn stores s and returns the cookie authenticating a request as s.
func SignIn(store session.Store, s *session.Session) *http.Cookie {
	if err := store.Set(context.Background(), s, time.Hour); err != nil {
		panic(err)
	}
	return &http.Cookie{Name: session.KeySecToken, Value: s.Token}
}
