// Package dstupath implements the pure path model for the DSTU namespace.
//
// All functions are total over the string domain: malformed input degrades to
// the most conservative safe interpretation instead of returning errors or
// panicking. Nothing in this package performs I/O; remote-validated
// counterparts live in the location service.
package dstupath

import (
	"strings"
)

// Separator is the path segment separator.
const Separator = "/"

// Root is the canonical root path.
const Root = "/"

// ParsedPath is the decomposition of a DSTU path string.
//
// Exactly one of the following holds: ResourceID is non-nil (the path denotes
// a resource), IsVirtual is true (the path denotes a computed view), or the
// path denotes a folder/root. Values are immutable; a fresh one is produced
// per Parse call.
type ParsedPath struct {
	FullPath     string  `json:"full_path"`
	FolderPath   *string `json:"folder_path"`             // nil = root level
	ResourceID   *string `json:"resource_id"`             // nil = path denotes a folder
	ResourceType string  `json:"resource_type,omitempty"` // inferred from identifier prefix, "" = unknown
	IsRoot       bool    `json:"is_root"`
	IsVirtual    bool    `json:"is_virtual"`
	VirtualType  string  `json:"virtual_type,omitempty"` // set only when IsVirtual
}

// Parse decomposes a path string into its components.
//
// Examples:
//   - "/" → {IsRoot: true}
//   - "/note_abc123" → {ResourceID: "note_abc123", ResourceType: "note"}
//   - "/A/B/note_abc123" → {FolderPath: "/A/B", ResourceID: "note_abc123"}
//   - "/A/B" → {FolderPath: "/A/B"} (folder path, no resource)
//   - "/@trash" → {IsVirtual: true, VirtualType: "trash"}
//
// Parse never fails: an unparsable final segment simply yields a folder
// interpretation, and an identifier with an unknown prefix yields an empty
// ResourceType.
func Parse(path string) ParsedPath {
	normalized := Normalize(path)

	if normalized == Root {
		return ParsedPath{FullPath: Root, IsRoot: true}
	}

	segments := splitSegments(normalized)
	if len(segments) == 0 {
		return ParsedPath{FullPath: Root, IsRoot: true}
	}

	// Virtual views are recognized by a reserved marker on the first segment
	// and are mutually exclusive with ordinary folder/resource paths.
	if vt, ok := virtualTypeOf(segments[0]); ok {
		return ParsedPath{
			FullPath:    normalized,
			IsVirtual:   true,
			VirtualType: vt,
		}
	}

	final := segments[len(segments)-1]
	if ResourceTypeOf(final) == "" {
		// No type-prefixed final segment: the whole path is a folder path.
		return ParsedPath{
			FullPath:   normalized,
			FolderPath: &normalized,
		}
	}

	parsed := ParsedPath{
		FullPath:     normalized,
		ResourceID:   &final,
		ResourceType: ResourceTypeOf(final),
	}
	if len(segments) > 1 {
		folder := Separator + strings.Join(segments[:len(segments)-1], Separator)
		parsed.FolderPath = &folder
	}
	return parsed
}

// Build constructs a full path from a folder path and a resource identifier.
// An empty folderPath means root level.
//
// Examples:
//   - Build("", "note_a") → "/note_a"
//   - Build("/A/B", "note_a") → "/A/B/note_a"
func Build(folderPath, resourceID string) string {
	folder := Normalize(folderPath)
	if folder == Root || folder == "" {
		return Root + resourceID
	}
	return folder + Separator + resourceID
}

// Join concatenates path segments into a normalized absolute path. Empty
// segments are skipped.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		for _, p := range splitSegments(s) {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return Root
	}
	return Separator + strings.Join(parts, Separator)
}

// ParentPath returns the parent of the given path, or "/" for root-level
// paths and the root itself.
func ParentPath(path string) string {
	segments := splitSegments(Normalize(path))
	if len(segments) <= 1 {
		return Root
	}
	return Separator + strings.Join(segments[:len(segments)-1], Separator)
}

// Basename returns the final segment of the path, or "" for the root.
func Basename(path string) string {
	segments := splitSegments(Normalize(path))
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// IsValidPath reports whether a path string is well-formed: absolute, no
// consecutive slashes, no trailing slash (except root), no empty or
// whitespace-only segments.
func IsValidPath(path string) bool {
	if path == Root {
		return true
	}
	if path == "" || !strings.HasPrefix(path, Separator) {
		return false
	}
	if strings.HasSuffix(path, Separator) || strings.Contains(path, "//") {
		return false
	}
	for _, segment := range strings.Split(strings.TrimPrefix(path, Separator), Separator) {
		if strings.TrimSpace(segment) == "" {
			return false
		}
	}
	return true
}

// IsVirtualPath reports whether the path denotes a computed view (trash,
// recent, favorites, all) rather than a real folder.
func IsVirtualPath(path string) bool {
	return Parse(path).IsVirtual
}

// Normalize trims whitespace and trailing separators and guarantees a leading
// separator. The root path is returned unchanged.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == Root {
		return Root
	}
	path = strings.TrimSuffix(path, Separator)
	if !strings.HasPrefix(path, Separator) {
		path = Separator + path
	}
	return path
}

// splitSegments splits a normalized path into its non-empty segments.
func splitSegments(path string) []string {
	trimmed := strings.Trim(path, Separator)
	if trimmed == "" {
		return nil
	}
	raw := strings.Split(trimmed, Separator)
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if strings.TrimSpace(s) != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
