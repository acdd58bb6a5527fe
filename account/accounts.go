package account

import (
	"context"
	"errors"
	"strings"
	"studioboard/bizerror"
	"studioboard/docstore"
	"studioboard/domain"
	"studioboard/idgen"
	"studioboard/persistence"
	"studioboard/session"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is lowered by tests.
var BcryptCost = bcrypt.DefaultCost

type UserManagerTraits interface {
	QueryUsers(sec *session.Session) ([]domain.User, error)
	CreateUser(c *domain.UserCreation, sec *session.Session) (*domain.User, error)
	UpdateUser(id types.ID, p *domain.UserPatch, sec *session.Session) (*domain.User, error)
	DeleteUser(id types.ID, sec *session.Session) error
}

type UserManager struct {
	ds       *persistence.DataSourceManager
	idWorker *sonyflake.Sonyflake
	hub      docstore.Publisher
}

func NewUserManager(ds *persistence.DataSourceManager, hub docstore.Publisher) *UserManager {
	return &UserManager{ds: ds, idWorker: idgen.NewWorker(), hub: hub}
}

func HashSecret(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticate checks username and password, both mismatches look the same
// to the caller.
func (m *UserManager) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user := domain.User{}
	err := m.ds.GormDB(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, bizerror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Secret), []byte(password)) != nil {
		return nil, bizerror.ErrInvalidCredentials
	}
	return &user, nil
}

func (m *UserManager) Detail(ctx context.Context, id types.ID) (*domain.User, error) {
	user := domain.User{}
	err := m.ds.GormDB(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, bizerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// LoadUsers reads the whole collection, oldest first.
func (m *UserManager) LoadUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := m.ds.GormDB(ctx).Order("create_time ASC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (m *UserManager) QueryUsers(sec *session.Session) ([]domain.User, error) {
	if sec.Viewer() == nil {
		return nil, bizerror.ErrUnauthenticated
	}
	return m.LoadUsers(sec.Context)
}

func (m *UserManager) CreateUser(c *domain.UserCreation, sec *session.Session) (*domain.User, error) {
	if !sec.IsAdmin() {
		return nil, bizerror.ErrForbidden
	}
	if !c.Role.Valid() {
		return nil, &bizerror.ErrInvalidRecord{Entity: "user", Field: "role", Reason: "unknown role '" + string(c.Role) + "'"}
	}
	secret, err := HashSecret(c.Password)
	if err != nil {
		return nil, err
	}
	user := domain.User{ID: idgen.NextID(m.idWorker), Username: strings.TrimSpace(c.Username), Secret: secret,
		Role: c.Role, FullName: c.FullName, CreateTime: time.Now()}

	err = m.ds.GormDB(sec.Context).Transaction(func(tx *gorm.DB) error {
		var count int
		if err := tx.Model(&domain.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return bizerror.ErrUsernameTaken
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	m.publish(docstore.ChangeCreated, user.ID)
	return &user, nil
}

// UpdateUser applies p to the user. Administrators may change everything,
// architects and designers may change their own profile except name, role
// and password.
func (m *UserManager) UpdateUser(id types.ID, p *domain.UserPatch, sec *session.Session) (*domain.User, error) {
	if !sec.IsAdmin() {
		self := sec.Viewer() != nil && sec.Identity.ID == id &&
			(sec.Identity.Role == domain.RoleArchitect || sec.Identity.Role == domain.RoleDesigner)
		if !self || p.TouchesPrivileged() {
			return nil, bizerror.ErrForbidden
		}
	}
	if p.Role != nil && !p.Role.Valid() {
		return nil, &bizerror.ErrInvalidRecord{Entity: "user", Field: "role", Reason: "unknown role '" + string(*p.Role) + "'"}
	}

	var updated domain.User
	err := m.ds.GormDB(sec.Context).Transaction(func(tx *gorm.DB) error {
		user := domain.User{}
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}
		updated = p.ApplyTo(user)
		if p.Password != nil {
			secret, err := HashSecret(*p.Password)
			if err != nil {
				return err
			}
			updated.Secret = secret
		}
		return tx.Save(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	m.publish(docstore.ChangeUpdated, id)
	return &updated, nil
}

// DeleteUser removes the user only, projects keep their dangling reference.
func (m *UserManager) DeleteUser(id types.ID, sec *session.Session) error {
	if !sec.IsAdmin() {
		return bizerror.ErrForbidden
	}
	if id == sec.Identity.ID {
		return &bizerror.ErrInvalidRecord{Entity: "user", Field: "id", Reason: "administrators cannot delete themselves"}
	}
	db := m.ds.GormDB(sec.Context).Where("id = ?", id).Delete(&domain.User{})
	if db.Error != nil {
		return db.Error
	}
	if db.RowsAffected == 0 {
		return bizerror.ErrNotFound
	}
	m.publish(docstore.ChangeDeleted, id)
	return nil
}

// EnsureAdmin creates the bootstrap administrator when no administrator
// exists yet.
func (m *UserManager) EnsureAdmin(ctx context.Context, username, password string) error {
	var count int
	if err := m.ds.GormDB(ctx).Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("no administrator exists and ADMIN_PASSWORD is empty")
	}
	root := &session.Session{Token: "bootstrap", Identity: session.Identity{Role: domain.RoleAdmin}, Context: ctx}
	user, err := m.CreateUser(&domain.UserCreation{Username: username, Password: password, Role: domain.RoleAdmin,
		FullName: "Администратор"}, root)
	if err != nil {
		return err
	}
	logrus.WithField("username", user.Username).Info("bootstrap administrator created")
	return nil
}

func (m *UserManager) publish(kind docstore.ChangeKind, id types.ID) {
	if m.hub != nil {
		m.hub.Publish(docstore.Change{Kind: kind, Collection: docstore.CollectionUsers, ID: id})
	}
}
