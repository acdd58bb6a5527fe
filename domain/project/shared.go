package project

import (
	"context"
	"net/url"
	"studioboard/bizerror"
	"studioboard/domain"
	"studioboard/session"

	"github.com/fundwit/go-commons/types"
)

// SharedProject is the read-only view a client opens through the share link.
type SharedProject struct {
	ID            types.ID            `json:"id"`
	Name          string              `json:"name"`
	Stage         domain.Stage        `json:"stage"`
	CoverPhotoURL string              `json:"coverPhotoUrl"`
	TechnicalTask string              `json:"technicalTask"`
	Links         domain.ProjectLinks `json:"links"`
}

func (m *ProjectManager) SharedProject(ctx context.Context, id types.ID) (*SharedProject, error) {
	p, err := m.find(m.ds.GormDB(ctx), id)
	if err != nil {
		return nil, err
	}
	return &SharedProject{ID: p.ID, Name: p.Name, Stage: p.Stage, CoverPhotoURL: p.CoverPhotoURL,
		TechnicalTask: p.TechnicalTask, Links: p.Links}, nil
}

type ShareLink struct {
	ProjectID types.ID `json:"projectId"`
	Name      string   `json:"name"`
	URL       string   `json:"url"`
}

// ShareURL appends the project query parameter to the public base url.
func ShareURL(baseURL string, id types.ID) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + "?project=" + id.String()
	}
	q := u.Query()
	q.Set("project", id.String())
	u.RawQuery = q.Encode()
	return u.String()
}

// ShareLinks lists the share url of every project for administrators and of
// the assigned projects for architects.
func (m *ProjectManager) ShareLinks(baseURL string, sec *session.Session) ([]ShareLink, error) {
	viewer := sec.Viewer()
	if viewer == nil {
		return nil, bizerror.ErrUnauthenticated
	}
	if viewer.Role != domain.RoleAdmin && viewer.Role != domain.RoleArchitect {
		return nil, bizerror.ErrForbidden
	}
	projects, err := m.LoadProjects(sec.Context)
	if err != nil {
		return nil, err
	}
	projects = domain.VisibleProjects(viewer, projects)
	links := make([]ShareLink, 0, len(projects))
	for _, p := range projects {
		links = append(links, ShareLink{ProjectID: p.ID, Name: p.Name, URL: ShareURL(baseURL, p.ID)})
	}
	return links, nil
}
