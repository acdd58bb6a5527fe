package domain

import (
	"strings"
	"time"

	"github.com/fundwit/go-commons/types"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleArchitect Role = "ARCHITECT"
	RoleDesigner  Role = "DESIGNER"
	RoleClient    Role = "CLIENT"
)

var RoleTranslations = map[Role]string{
	RoleAdmin:     "Администратор",
	RoleArchitect: "Архитектор",
	RoleDesigner:  "Дизайнер",
	RoleClient:    "Заказчик",
}

func (r Role) Valid() bool {
	_, ok := RoleTranslations[r]
	return ok
}

type User struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Username string `json:"username" gorm:"unique_index:username_unique"`
	Secret   string `json:"-"`
	Role     Role   `json:"role"`

	FullName       string `json:"fullName"`
	PhotoURL       string `json:"photoUrl"`
	Bio            string `json:"bio" sql:"type:TEXT"`
	DOB            string `json:"dob"`
	PaymentDetails string `json:"paymentDetails" sql:"type:TEXT"`
	CostPerM2      string `json:"costPerM2"`

	CreateTime time.Time `json:"createTime"`
}

func (u *User) DisplayName() string {
	if strings.TrimSpace(u.FullName) != "" {
		return u.FullName
	}
	return u.Username
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserCard is the public part of a user shown to non-administrators.
type UserCard struct {
	ID       types.ID `json:"id"`
	Username string   `json:"username"`
	Role     Role     `json:"role"`
	FullName string   `json:"fullName"`
	PhotoURL string   `json:"photoUrl"`
}

func (u *User) Card() UserCard {
	return UserCard{ID: u.ID, Username: u.Username, Role: u.Role, FullName: u.FullName, PhotoURL: u.PhotoURL}
}

type UserCreation struct {
	Username string `json:"username" binding:"required,lte=60"`
	Password string `json:"password" binding:"required,gte=6,lte=72"`
	Role     Role   `json:"role" binding:"required,oneof=ADMIN ARCHITECT DESIGNER CLIENT"`
	FullName string `json:"fullName" binding:"required,lte=120"`
}

// UserPatch is a typed partial update, nil fields are left untouched.
type UserPatch struct {
	FullName       *string `json:"fullName" binding:"omitempty,lte=120"`
	Role           *Role   `json:"role" binding:"omitempty,oneof=ADMIN ARCHITECT DESIGNER CLIENT"`
	Password       *string `json:"password" binding:"omitempty,gte=6,lte=72"`
	PhotoURL       *string `json:"photoUrl"`
	Bio            *string `json:"bio"`
	DOB            *string `json:"dob"`
	PaymentDetails *string `json:"paymentDetails"`
	CostPerM2      *string `json:"costPerM2"`
}

// TouchesPrivileged reports whether the patch changes fields only an
// administrator may change.
func (p *UserPatch) TouchesPrivileged() bool {
	return p.FullName != nil || p.Role != nil || p.Password != nil
}

// ApplyTo merges the patch onto u. Password is handled by the caller since
// only its hash is stored.
func (p *UserPatch) ApplyTo(u User) User {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.PhotoURL != nil {
		u.PhotoURL = *p.PhotoURL
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.DOB != nil {
		u.DOB = *p.DOB
	}
	if p.PaymentDetails != nil {
		u.PaymentDetails = *p.PaymentDetails
	}
	if p.CostPerM2 != nil {
		u.CostPerM2 = *p.CostPerM2
	}
	return u
}
