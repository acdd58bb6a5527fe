package session

import (
	"context"
	"studioboard/domain"
	"time"

	"github.com/fundwit/go-commons/types"
)

type Identity struct {
	ID       types.ID    `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	FullName string      `json:"fullName"`
}

func IdentityOf(u *domain.User) Identity {
	return Identity{ID: u.ID, Username: u.Username, Role: u.Role, FullName: u.FullName}
}

type Session struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`

	SigningTime time.Time `json:"signingTime"`

	// Context carries the request scoped tracing span, never stored.
	Context context.Context `json:"-"`
}

func (s *Session) Clone() Session {
	return Session{Token: s.Token, Identity: s.Identity, SigningTime: s.SigningTime, Context: s.Context}
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Identity.Role == domain.RoleAdmin
}

// Viewer is the user record the role-scoped views are computed for.
func (s *Session) Viewer() *domain.User {
	if s == nil || s.Token == "" {
		return nil
	}
	return &domain.User{ID: s.Identity.ID, Username: s.Identity.Username, Role: s.Identity.Role, FullName: s.Identity.FullName}
}
