package indices

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"studioboard/bizerror"
	"studioboard/client/es"
	"studioboard/docstore"
	"studioboard/domain"
	"sync"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const ProjectIndexName = "projects"

// DocumentStore is the part of the search engine the indexer talks to.
type DocumentStore interface {
	Index(ctx context.Context, index string, id types.ID, doc interface{}) error
	DeleteDocument(ctx context.Context, index string, id types.ID) error
	Search(ctx context.Context, index string, query interface{}) (*es.ESSearchResult, error)
}

// ProjectSource reads the records to index.
type ProjectSource interface {
	LoadProjects(ctx context.Context) ([]domain.Project, error)
	FindProject(ctx context.Context, id types.ID) (*domain.Project, error)
}

type BatchActionError map[types.ID]error

func (e BatchActionError) Error() string {
	return fmt.Sprintf("%v", map[types.ID]error(e))
}

// ProjectIndexer mirrors the projects collection into the search index.
// Documents that fail to sync are queued and retried by RecoverPending.
type ProjectIndexer struct {
	docs    DocumentStore
	source  ProjectSource
	limiter *rate.Limiter

	mu      sync.Mutex
	pending map[types.ID]struct{}
	running bool
}

// NewProjectIndexer retries pending documents at no more than retryRate,
// e.g. rate.Every(time.Second).
func NewProjectIndexer(docs DocumentStore, source ProjectSource, retryRate rate.Limit) *ProjectIndexer {
	return &ProjectIndexer{
		docs: docs, source: source,
		limiter: rate.NewLimiter(retryRate, 1),
		pending: map[types.ID]struct{}{},
	}
}

// HandleChange is the docstore listener of the projects collection.
func (x *ProjectIndexer) HandleChange(c *docstore.Change) error {
	if c.Collection != docstore.CollectionProjects {
		return nil
	}
	if err := x.sync(context.Background(), c.ID); err != nil {
		x.enqueue(c.ID)
		return fmt.Errorf("index project %s: %w", c.ID, err)
	}
	return nil
}

// sync brings the document of id in line with the store, deleting it when the
// record is gone.
func (x *ProjectIndexer) sync(ctx context.Context, id types.ID) error {
	p, err := x.source.FindProject(ctx, id)
	if errors.Is(err, bizerror.ErrNotFound) {
		return x.docs.DeleteDocument(ctx, ProjectIndexName, id)
	}
	if err != nil {
		return err
	}
	return x.docs.Index(ctx, ProjectIndexName, p.ID, p)
}

func (x *ProjectIndexer) enqueue(id types.ID) {
	x.mu.Lock()
	x.pending[id] = struct{}{}
	x.mu.Unlock()
}

// Pending lists the queued ids in ascending order.
func (x *ProjectIndexer) Pending() []types.ID {
	x.mu.Lock()
	defer x.mu.Unlock()
	ids := make([]types.ID, 0, len(x.pending))
	for id := range x.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// RecoverPending retries every queued document, waiting on the limiter
// between attempts. Documents failing again stay queued.
func (x *ProjectIndexer) RecoverPending(ctx context.Context) error {
	for _, id := range x.Pending() {
		if err := x.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := x.sync(ctx, id); err != nil {
			logrus.WithField("project", id).Warn("index recovery failed: ", err)
			continue
		}
		x.mu.Lock()
		delete(x.pending, id)
		x.mu.Unlock()
	}
	return nil
}

// FullSync indexes every project. Failed documents are queued for recovery.
func (x *ProjectIndexer) FullSync(ctx context.Context) error {
	projects, err := x.source.LoadProjects(ctx)
	if err != nil {
		return err
	}
	errs := BatchActionError{}
	for i := range projects {
		p := &projects[i]
		if err := x.docs.Index(ctx, ProjectIndexName, p.ID, p); err != nil {
			errs[p.ID] = err
			x.enqueue(p.ID)
			logrus.Warnf("index project %d %s: %v", p.ID, p.Name, err)
		}
	}
	logrus.Infof("indices fully sync: %d projects, %d failed", len(projects), len(errs))
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ScheduleFullSync starts a background full sync unless one is running and
// reports whether it started one.
func (x *ProjectIndexer) ScheduleFullSync(isAdmin bool, done func(error)) (bool, error) {
	if !isAdmin {
		return false, bizerror.ErrForbidden
	}
	x.mu.Lock()
	if x.running {
		x.mu.Unlock()
		return false, nil
	}
	x.running = true
	x.mu.Unlock()

	go func() {
		err := x.FullSync(context.Background())
		x.mu.Lock()
		x.running = false
		x.mu.Unlock()
		if done != nil {
			done(err)
		}
	}()
	return true, nil
}
