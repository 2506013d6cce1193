package dstu

// Breadcrumb is one ancestor in a breadcrumb trail. A nil ID denotes the
// root. Ellipsis entries stand in for a collapsed run of ancestors and carry
// the elided crumbs in order.
type Breadcrumb struct {
	ID       *string      `json:"id"`
	Name     string       `json:"name"`
	Ellipsis bool         `json:"ellipsis,omitempty"`
	Elided   []Breadcrumb `json:"elided,omitempty"`
}

// PathSnapshot captures enough navigation state to restore a view: the folder
// being shown, any type filter, and the breadcrumb trail leading to it.
type PathSnapshot struct {
	FolderID    *string      `json:"folder_id"` // NULL = root level
	Path        string       `json:"path"`
	VirtualType string       `json:"virtual_type,omitempty"`
	TypeFilter  string       `json:"type_filter,omitempty"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs,omitempty"`
}

// SameLocation reports whether two snapshots denote the same effective
// location (folder and view), ignoring presentation-only fields.
func (s PathSnapshot) SameLocation(other PathSnapshot) bool {
	if s.VirtualType != other.VirtualType || s.TypeFilter != other.TypeFilter {
		return false
	}
	if (s.FolderID == nil) != (other.FolderID == nil) {
		return false
	}
	if s.FolderID != nil && *s.FolderID != *other.FolderID {
		return false
	}
	return s.Path == other.Path
}
