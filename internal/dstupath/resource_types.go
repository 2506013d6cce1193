package dstupath

import (
	"sort"
	"strings"
)

// VirtualMarker prefixes reserved top-level segments that denote computed
// views instead of real folders.
const VirtualMarker = "@"

// Virtual view types.
const (
	VirtualTrash     = "trash"
	VirtualRecent    = "recent"
	VirtualFavorites = "favorites"
	VirtualAll       = "all"
)

// virtualTypes is the fixed set of reserved top-level segments.
var virtualTypes = map[string]string{
	VirtualMarker + VirtualTrash:     VirtualTrash,
	VirtualMarker + VirtualRecent:    VirtualRecent,
	VirtualMarker + VirtualFavorites: VirtualFavorites,
	VirtualMarker + VirtualAll:       VirtualAll,
}

// resourceTypePrefixes maps identifier prefixes to resource types. Identifiers
// carry a short alphabetic tag followed by an underscore, e.g. "note_abc123".
var resourceTypePrefixes = map[string]string{
	"note":   "note",
	"doc":    "doc",
	"qset":   "qset",
	"folder": "folder",
}

// ResourceTypeOf infers the resource type from an identifier's prefix.
// Returns "" when the identifier has no recognized prefix; it never fails.
func ResourceTypeOf(id string) string {
	prefix, rest, found := strings.Cut(id, "_")
	if !found || rest == "" {
		return ""
	}
	return resourceTypePrefixes[prefix]
}

// KnownResourceTypes returns the set of recognized resource types, sorted.
func KnownResourceTypes() []string {
	types := make([]string, 0, len(resourceTypePrefixes))
	for _, t := range resourceTypePrefixes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// KnownResourcePrefixes returns the recognized identifier prefixes, sorted.
func KnownResourcePrefixes() []string {
	prefixes := make([]string, 0, len(resourceTypePrefixes))
	for p := range resourceTypePrefixes {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}

// virtualTypeOf resolves a top-level segment against the reserved set.
func virtualTypeOf(segment string) (string, bool) {
	vt, ok := virtualTypes[segment]
	return vt, ok
}
