package project

import (
	"context"
	"errors"
	"studioboard/bizerror"
	"studioboard/docstore"
	"studioboard/domain"
	"studioboard/idgen"
	"studioboard/persistence"
	"studioboard/session"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

type ProjectManagerTraits interface {
	QueryProjects(sec *session.Session) ([]domain.Project, error)
	DetailProject(id types.ID, sec *session.Session) (*domain.Project, error)
	CreateProject(c *domain.ProjectCreation, sec *session.Session) (*domain.Project, error)
	UpdateProject(id types.ID, p *domain.ProjectPatch, sec *session.Session) (*domain.Project, error)
	DeleteProject(id types.ID, sec *session.Session) error
	SharedProject(ctx context.Context, id types.ID) (*SharedProject, error)
}

type ProjectManager struct {
	ds       *persistence.DataSourceManager
	idWorker *sonyflake.Sonyflake
	hub      docstore.Publisher

	// Now is the clock new projects are dated with.
	Now func() time.Time
}

func NewProjectManager(ds *persistence.DataSourceManager, hub docstore.Publisher) *ProjectManager {
	return &ProjectManager{ds: ds, idWorker: idgen.NewWorker(), hub: hub, Now: time.Now}
}

// LoadProjects reads the whole collection, oldest first.
func (m *ProjectManager) LoadProjects(ctx context.Context) ([]domain.Project, error) {
	projects := []domain.Project{}
	if err := m.ds.GormDB(ctx).Order("create_time ASC, id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindProject reads one record without a visibility check, for system jobs.
func (m *ProjectManager) FindProject(ctx context.Context, id types.ID) (*domain.Project, error) {
	return m.find(m.ds.GormDB(ctx), id)
}

func (m *ProjectManager) QueryProjects(sec *session.Session) ([]domain.Project, error) {
	viewer := sec.Viewer()
	if viewer == nil {
		return nil, bizerror.ErrUnauthenticated
	}
	projects, err := m.LoadProjects(sec.Context)
	if err != nil {
		return nil, err
	}
	return domain.VisibleProjects(viewer, projects), nil
}

func (m *ProjectManager) DetailProject(id types.ID, sec *session.Session) (*domain.Project, error) {
	p, err := m.find(m.ds.GormDB(sec.Context), id)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(sec.Viewer(), p) {
		return nil, bizerror.ErrForbidden
	}
	return p, nil
}

func (m *ProjectManager) CreateProject(c *domain.ProjectCreation, sec *session.Session) (*domain.Project, error) {
	if !sec.IsAdmin() {
		return nil, bizerror.ErrForbidden
	}
	p := domain.NewProject(idgen.NextID(m.idWorker), c, m.Now())
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := m.ds.GormDB(sec.Context).Create(&p).Error; err != nil {
		return nil, err
	}
	m.publish(docstore.ChangeCreated, p.ID)
	return &p, nil
}

// UpdateProject merges the patch onto the stored record. The patch is applied
// whole or not at all: a field group the role may not edit, a project the
// user does not see, or an invalid merged record rejects it.
func (m *ProjectManager) UpdateProject(id types.ID, patch *domain.ProjectPatch, sec *session.Session) (*domain.Project, error) {
	viewer := sec.Viewer()
	if viewer == nil {
		return nil, bizerror.ErrUnauthenticated
	}
	if !patch.PermittedFor(viewer.Role) {
		return nil, bizerror.ErrForbidden
	}

	var merged domain.Project
	err := m.ds.GormDB(sec.Context).Transaction(func(tx *gorm.DB) error {
		stored, err := m.find(tx, id)
		if err != nil {
			return err
		}
		if !domain.CanView(viewer, stored) {
			return bizerror.ErrForbidden
		}
		merged = patch.ApplyTo(*stored)
		if err := merged.Validate(); err != nil {
			return err
		}
		return tx.Save(&merged).Error
	})
	if err != nil {
		return nil, err
	}
	m.publish(docstore.ChangeUpdated, id)
	return &merged, nil
}

func (m *ProjectManager) DeleteProject(id types.ID, sec *session.Session) error {
	if !sec.IsAdmin() {
		return bizerror.ErrForbidden
	}
	db := m.ds.GormDB(sec.Context).Where("id = ?", id).Delete(&domain.Project{})
	if db.Error != nil {
		return db.Error
	}
	if db.RowsAffected == 0 {
		return bizerror.ErrNotFound
	}
	m.publish(docstore.ChangeDeleted, id)
	return nil
}

func (m *ProjectManager) find(db *gorm.DB, id types.ID) (*domain.Project, error) {
	p := domain.Project{}
	err := db.Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, bizerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *ProjectManager) publish(kind docstore.ChangeKind, id types.ID) {
	if m.hub != nil {
		m.hub.Publish(docstore.Change{Kind: kind, Collection: docstore.CollectionProjects, ID: id})
	}
}
