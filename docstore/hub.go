// Package docstore announces committed writes to the users and projects
// collections so that derived views can refresh their snapshots.
package docstore

import (
	"sync"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

type Collection string

const (
	CollectionUsers    Collection = "users"
	CollectionProjects Collection = "projects"
)

type ChangeKind string

const (
	ChangeCreated ChangeKind = "CREATED"
	ChangeUpdated ChangeKind = "UPDATED"
	ChangeDeleted ChangeKind = "DELETED"
)

type Change struct {
	Kind       ChangeKind `json:"kind"`
	Collection Collection `json:"collection"`
	ID         types.ID   `json:"id"`
}

// Listener reacts to a change. A returned error is logged and reported by
// Publish, other listeners still run.
type Listener func(c *Change) error

type subscription struct {
	id       uint64
	listener Listener
}

type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Collection][]subscription
}

func NewHub() *Hub {
	return &Hub{subs: map[Collection][]subscription{}}
}

// Subscribe registers listener for collection and returns the function
// removing it again.
func (h *Hub) Subscribe(collection Collection, listener Listener) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.subs[collection] = append(h.subs[collection], subscription{id: id, listener: listener})

	var once sync.Once
	return func() {
		once.Do(func() { h.unsubscribe(collection, id) })
	}
}

func (h *Hub) unsubscribe(collection Collection, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.subs[collection]
	for i, s := range subs {
		if s.id == id {
			h.subs[collection] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish runs the listeners of the change's collection synchronously in
// registration order and returns the errors of the failed ones.
func (h *Hub) Publish(c Change) []error {
	h.mu.RLock()
	subs := make([]subscription, len(h.subs[c.Collection]))
	copy(subs, h.subs[c.Collection])
	h.mu.RUnlock()

	var failures []error
	for _, s := range subs {
		logrus.Debug("pre handle change ", c)
		if err := s.listener(&c); err != nil {
			logrus.WithFields(logrus.Fields{"collection": c.Collection, "kind": c.Kind, "id": c.ID}).
				Error("change listener failed: ", err)
			failures = append(failures, err)
		}
	}
	return failures
}

// Publisher is the write side of the hub used by the managers.
type Publisher interface {
	Publish(c Change) []error
}
