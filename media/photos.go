// Package media stores user photos and project covers in object storage.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"studioboard/bizerror"
	"studioboard/client/s3"
	"studioboard/domain"
	"studioboard/session"

	"github.com/fundwit/go-commons/types"
)

const (
	// MaxPhotoBytes bounds an uploaded body.
	MaxPhotoBytes = 10 << 20

	keyPrefix  = "photos/"
	PhotosPath = "/v1/photos/"
)

var ErrUnsupportedImage = errors.New("only jpeg and png images are accepted")

// UserPhotoKey and ProjectCoverKey are the object keys of the stored images.
func UserPhotoKey(id types.ID) string {
	return keyPrefix + "users/" + id.String()
}

func ProjectCoverKey(id types.ID) string {
	return keyPrefix + "projects/" + id.String()
}

// PhotoURL is the address the stored object is served back on.
func PhotoURL(key string) string {
	return PhotosPath + key
}

type UserUpdater interface {
	Detail(ctx context.Context, id types.ID) (*domain.User, error)
	UpdateUser(id types.ID, p *domain.UserPatch, sec *session.Session) (*domain.User, error)
}

type ProjectUpdater interface {
	DetailProject(id types.ID, sec *session.Session) (*domain.Project, error)
	UpdateProject(id types.ID, p *domain.ProjectPatch, sec *session.Session) (*domain.Project, error)
}

type PhotoManager struct {
	store    s3.ObjectStore
	users    UserUpdater
	projects ProjectUpdater
}

func NewPhotoManager(store s3.ObjectStore, users UserUpdater, projects ProjectUpdater) *PhotoManager {
	return &PhotoManager{store: store, users: users, projects: projects}
}

// UploadUserPhoto is open to administrators and to architects and designers
// for their own photo.
func (m *PhotoManager) UploadUserPhoto(id types.ID, r io.Reader, sec *session.Session) (*domain.User, error) {
	if sec.Viewer() == nil {
		return nil, bizerror.ErrUnauthenticated
	}
	self := sec.Identity.ID == id &&
		(sec.Identity.Role == domain.RoleArchitect || sec.Identity.Role == domain.RoleDesigner)
	if !sec.IsAdmin() && !self {
		return nil, bizerror.ErrForbidden
	}
	if _, err := m.users.Detail(sec.Context, id); err != nil {
		return nil, err
	}
	key := UserPhotoKey(id)
	if err := m.put(key, r, sec); err != nil {
		return nil, err
	}
	url := PhotoURL(key)
	return m.users.UpdateUser(id, &domain.UserPatch{PhotoURL: &url}, sec)
}

func (m *PhotoManager) UploadProjectCover(id types.ID, r io.Reader, sec *session.Session) (*domain.Project, error) {
	if sec.Viewer() == nil {
		return nil, bizerror.ErrUnauthenticated
	}
	if !sec.IsAdmin() {
		return nil, bizerror.ErrForbidden
	}
	if _, err := m.projects.DetailProject(id, sec); err != nil {
		return nil, err
	}
	key := ProjectCoverKey(id)
	if err := m.put(key, r, sec); err != nil {
		return nil, err
	}
	url := PhotoURL(key)
	return m.projects.UpdateProject(id, &domain.ProjectPatch{CoverPhotoURL: &url}, sec)
}

func (m *PhotoManager) put(key string, r io.Reader, sec *session.Session) error {
	body, err := ioutil.ReadAll(io.LimitReader(r, MaxPhotoBytes+1))
	if err != nil {
		return err
	}
	if len(body) > MaxPhotoBytes {
		return &bizerror.ErrBadParam{Cause: fmt.Errorf("image exceeds %d bytes", MaxPhotoBytes)}
	}
	contentType, err := imageType(body)
	if err != nil {
		return &bizerror.ErrBadParam{Cause: err}
	}
	return m.store.PutObject(sec.Context, key, bytes.NewReader(body), contentType)
}

// DetailPhoto reads a stored image back with its content type.
func (m *PhotoManager) DetailPhoto(key string, sec *session.Session) ([]byte, string, error) {
	key = strings.TrimPrefix(key, "/")
	if !strings.HasPrefix(key, keyPrefix) || strings.Contains(key, "..") {
		return nil, "", bizerror.ErrNotFound
	}
	r, err := m.store.GetObject(sec.Context, key)
	if errors.Is(err, s3.ErrNoSuchKey) {
		return nil, "", bizerror.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	defer r.Close()
	body, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	return body, http.DetectContentType(body), nil
}

func imageType(body []byte) (string, error) {
	contentType := http.DetectContentType(body)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return "", ErrUnsupportedImage
	}
	return contentType, nil
}
