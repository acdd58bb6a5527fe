package session

import (
	"context"
	"errors"
	"studioboard/bizerror"
	"studioboard/domain"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const KeySecCtx = "SecCtx"
const KeySecToken = "sec_token"

// Authenticator resolves the users behind sign-in attempts.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Detail(ctx context.Context, id types.ID) (*domain.User, error)
}

// ExtractSessionFromGinContext returns the session of the request, an empty
// session when the request is anonymous.
func ExtractSessionFromGinContext(ctx *gin.Context) *Session {
	value, found := ctx.Get(KeySecCtx)
	if !found {
		return &Session{Context: ctx.Request.Context()}
	}
	s0, ok := value.(*Session)
	if !ok || s0.Token == "" {
		return &Session{Context: ctx.Request.Context()}
	}
	s := s0.Clone()
	s.Context = ctx.Request.Context() // trace context
	return &s
}

func InjectSessionIntoGinContext(ctx *gin.Context, s *Session) {
	if s != nil && s.Token != "" {
		ctx.Set(KeySecCtx, s)
	}
}

func SimpleAuthFilter(store Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(KeySecToken)
		if err != nil || token == "" {
			panic(bizerror.ErrUnauthenticated)
		}
		s, found, err := store.Get(ctx.Request.Context(), token)
		if err != nil {
			panic(err)
		}
		if !found {
			panic(bizerror.ErrUnauthenticated)
		}
		InjectSessionIntoGinContext(ctx, s)
		ctx.Next()
	}
}

// UserResolver reads the current record of a signed-in user.
type UserResolver interface {
	Detail(ctx context.Context, id types.ID) (*domain.User, error)
}

// RefreshIdentity runs after SimpleAuthFilter and replaces the signed identity
// with the current user record. A deleted user loses the session, a role
// change applies from the next request.
func RefreshIdentity(store Store, users UserResolver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		s := ExtractSessionFromGinContext(ctx)
		if s.Token == "" {
			panic(bizerror.ErrUnauthenticated)
		}
		user, err := users.Detail(s.Context, s.Identity.ID)
		if errors.Is(err, bizerror.ErrNotFound) {
			_ = store.Remove(s.Context, s.Token)
			panic(bizerror.ErrUnauthenticated)
		}
		if err != nil {
			panic(err)
		}
		s.Identity = IdentityOf(user)
		InjectSessionIntoGinContext(ctx, s)
		ctx.Next()
	}
}

// Sign opens a session for u and sets the token cookie.
func Sign(c *gin.Context, store Store, u *domain.User, expiration time.Duration) *Session {
	s := &Session{Token: uuid.New().String(), Identity: IdentityOf(u), SigningTime: time.Now()}
	if err := store.Set(c.Request.Context(), s, expiration); err != nil {
		panic(err)
	}
	c.SetCookie(KeySecToken, s.Token, int(expiration/time.Second), "/", "", false, false)
	return s
}
