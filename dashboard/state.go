// Package dashboard keeps the in-memory snapshots the dashboard, finance and
// check views are computed from.
package dashboard

import (
	"context"
	"studioboard/docstore"
	"studioboard/domain"
	"studioboard/timeline"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type UsersLoader func(ctx context.Context) ([]domain.User, error)
type ProjectsLoader func(ctx context.Context) ([]domain.Project, error)

// State holds one snapshot per collection. A replacement swaps the whole
// slice, readers never observe a half-updated collection.
type State struct {
	mu       sync.RWMutex
	users    []domain.User
	projects []domain.Project

	// held from load to replace so a later reload never loses to an earlier one
	usersReload    sync.Mutex
	projectsReload sync.Mutex

	loadUsers    UsersLoader
	loadProjects ProjectsLoader
	metrics      *Metrics
}

func NewState(users UsersLoader, projects ProjectsLoader, metrics *Metrics) *State {
	return &State{
		users: []domain.User{}, projects: []domain.Project{},
		loadUsers: users, loadProjects: projects, metrics: metrics,
	}
}

func (s *State) ReplaceUsers(users []domain.User) {
	if users == nil {
		users = []domain.User{}
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
}

func (s *State) ReplaceProjects(projects []domain.Project) {
	if projects == nil {
		projects = []domain.Project{}
	}
	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
}

// Snapshot returns both collections as of one instant. Callers must not
// modify the returned slices.
func (s *State) Snapshot() ([]domain.User, []domain.Project) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users, s.projects
}

// Load reads both collections, a failed collection keeps its snapshot.
func (s *State) Load(ctx context.Context) error {
	if err := s.reload(ctx, docstore.CollectionUsers); err != nil {
		return err
	}
	return s.reload(ctx, docstore.CollectionProjects)
}

func (s *State) reload(ctx context.Context, collection docstore.Collection) error {
	switch collection {
	case docstore.CollectionUsers:
		s.usersReload.Lock()
		defer s.usersReload.Unlock()
		users, err := s.loadUsers(ctx)
		if err != nil {
			s.metrics.incReload(string(collection), false)
			return err
		}
		s.ReplaceUsers(users)
	case docstore.CollectionProjects:
		s.projectsReload.Lock()
		defer s.projectsReload.Unlock()
		projects, err := s.loadProjects(ctx)
		if err != nil {
			s.metrics.incReload(string(collection), false)
			return err
		}
		s.ReplaceProjects(projects)
	}
	s.metrics.incReload(string(collection), true)
	return nil
}

// Attach reloads a collection on each of its changes and returns the
// function detaching the state from hub.
func (s *State) Attach(hub *docstore.Hub) func() {
	listener := func(c *docstore.Change) error {
		if err := s.reload(context.Background(), c.Collection); err != nil {
			logrus.WithField("collection", c.Collection).Warn("snapshot kept, reload failed: ", err)
			return err
		}
		return nil
	}
	unsubscribeUsers := hub.Subscribe(docstore.CollectionUsers, listener)
	unsubscribeProjects := hub.Subscribe(docstore.CollectionProjects, listener)
	return func() {
		unsubscribeUsers()
		unsubscribeProjects()
	}
}

type View struct {
	Buckets domain.Buckets `json:"buckets"`
	Chart   timeline.Chart `json:"chart"`
}

// Dashboard computes the view of viewer from a single snapshot: visible set,
// stage buckets, then the timeline over the visible set.
func (s *State) Dashboard(viewer *domain.User, now time.Time) View {
	users, projects := s.Snapshot()
	visible := domain.VisibleProjects(viewer, projects)

	w := timeline.NewWindow(visible, now)
	view := View{
		Buckets: domain.PartitionByStage(visible),
		Chart:   timeline.Render(w, visible, domain.NewDirectory(users), viewer, now),
	}
	s.metrics.incRecompute()
	return view
}
