package domain

import (
	"sort"

	"github.com/fundwit/go-commons/types"
)

// VisibleProjects returns the projects viewer may see on the dashboard.
// Administrators get the input unchanged, architects and designers get the
// projects they are assigned to, clients and anonymous viewers get nothing.
func VisibleProjects(viewer *User, all []Project) []Project {
	if viewer == nil {
		return []Project{}
	}
	switch viewer.Role {
	case RoleAdmin:
		return all
	case RoleArchitect:
		return filterProjects(all, func(p *Project) bool { return p.ArchitectID == viewer.ID })
	case RoleDesigner:
		return filterProjects(all, func(p *Project) bool { return p.DesignerID == viewer.ID })
	default:
		return []Project{}
	}
}

// CanView reports whether viewer sees the project in VisibleProjects.
func CanView(viewer *User, p *Project) bool {
	if viewer == nil {
		return false
	}
	switch viewer.Role {
	case RoleAdmin:
		return true
	case RoleArchitect:
		return p.ArchitectID == viewer.ID
	case RoleDesigner:
		return p.DesignerID == viewer.ID
	}
	return false
}

func filterProjects(all []Project, keep func(p *Project) bool) []Project {
	result := []Project{}
	for i := range all {
		if keep(&all[i]) {
			result = append(result, all[i])
		}
	}
	return result
}

type Buckets struct {
	Active    []Project `json:"active"`
	Queue     []Project `json:"queue"`
	Completed []Project `json:"completed"`
}

// PartitionByStage splits projects into disjoint buckets: queued, completed,
// and active for every other stage. Input order is kept inside a bucket.
func PartitionByStage(projects []Project) Buckets {
	b := Buckets{Active: []Project{}, Queue: []Project{}, Completed: []Project{}}
	for _, p := range projects {
		switch p.Stage {
		case StageQueue:
			b.Queue = append(b.Queue, p)
		case StageCompleted:
			b.Completed = append(b.Completed, p)
		default:
			b.Active = append(b.Active, p)
		}
	}
	return b
}

// SortByStage returns a copy of projects ordered by pipeline rank. The sort is
// stable so projects sharing a stage keep their relative order.
func SortByStage(projects []Project, ascending bool) []Project {
	sorted := make([]Project, len(projects))
	copy(sorted, projects)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Stage.Rank(), sorted[j].Stage.Rank()
		if ascending {
			return ri < rj
		}
		return ri > rj
	})
	return sorted
}

// Unassigned is shown wherever a user reference does not resolve.
const Unassigned = "Не назначен"

// Directory resolves user references by id.
type Directory map[types.ID]User

func NewDirectory(users []User) Directory {
	d := make(Directory, len(users))
	for _, u := range users {
		d[u.ID] = u
	}
	return d
}

func (d Directory) Find(id types.ID) (User, bool) {
	if id == 0 {
		return User{}, false
	}
	u, ok := d[id]
	return u, ok
}

// DisplayName is the user's display name, "" when id does not resolve.
func (d Directory) DisplayName(id types.ID) string {
	u, ok := d.Find(id)
	if !ok {
		return ""
	}
	return u.DisplayName()
}

// NameOrUnassigned is DisplayName falling back to Unassigned.
func (d Directory) NameOrUnassigned(id types.ID) string {
	if name := d.DisplayName(id); name != "" {
		return name
	}
	return Unassigned
}

// UsersWithRole keeps the input order.
func UsersWithRole(users []User, role Role) []User {
	result := []User{}
	for _, u := range users {
		if u.Role == role {
			result = append(result, u)
		}
	}
	return result
}
