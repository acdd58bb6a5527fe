package indices

import (
	"encoding/json"
	"fmt"
	"strings"
	"studioboard/bizerror"
	"studioboard/client/es"
	"studioboard/domain"
	"studioboard/session"
)

// SearchSize caps the hits of one query.
const SearchSize = 1000

// SearchProjects runs a full text match and keeps the hits the viewer may see.
func (x *ProjectIndexer) SearchProjects(text string, sec *session.Session) ([]domain.Project, error) {
	viewer := sec.Viewer()
	if viewer == nil {
		return nil, bizerror.ErrUnauthenticated
	}
	if strings.TrimSpace(text) == "" {
		return nil, &bizerror.ErrBadParam{Cause: fmt.Errorf("query must not be blank")}
	}

	query := es.H{
		"size": SearchSize,
		"query": es.H{"multi_match": es.H{
			"query":  text,
			"fields": []string{"name^2", "technicalTask", "notes"},
		}},
	}
	r, err := x.docs.Search(sec.Context, ProjectIndexName, query)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.Project, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		p := domain.Project{}
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			return nil, fmt.Errorf("decode project hit %s: %w", hit.Id, err)
		}
		hits = append(hits, p)
	}
	return domain.VisibleProjects(viewer, hits), nil
}
