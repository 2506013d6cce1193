package dstu

import (
	"encoding/json"
)

// Metadata is the per-type extra field set attached to a node, decoded at the
// boundary where the backend payload is received. Each resource type has its
// own closed variant; exactly one variant pointer is non-nil after a
// successful decode. Payloads for unrecognized types are retained raw so a
// round-trip does not lose data.
type Metadata struct {
	Note   *NoteMetadata   `json:"-"`
	Doc    *DocMetadata    `json:"-"`
	Qset   *QsetMetadata   `json:"-"`
	Folder *FolderMetadata `json:"-"`

	raw json.RawMessage
}

// NoteMetadata carries note-specific fields.
type NoteMetadata struct {
	WordCount int      `json:"word_count"`
	Tags      []string `json:"tags,omitempty"`
	Pinned    bool     `json:"pinned,omitempty"`
}

// DocMetadata carries document-specific fields.
type DocMetadata struct {
	MimeType string `json:"mime_type"`
	Pages    int    `json:"pages,omitempty"`
}

// QsetMetadata carries question-set-specific fields.
type QsetMetadata struct {
	QuestionCount int    `json:"question_count"`
	Difficulty    string `json:"difficulty,omitempty"`
}

// FolderMetadata carries folder-specific fields.
type FolderMetadata struct {
	ChildCount int `json:"child_count"`
}

// Decode populates the variant matching the given resource type. Unknown
// types keep only the raw payload. A payload that does not match the
// variant's shape returns an error; the RPC boundary logs and tolerates it,
// keeping the node usable with the raw payload retained.
func (m *Metadata) Decode(resourceType string, data json.RawMessage) error {
	m.raw = data
	if len(data) == 0 {
		return nil
	}
	switch resourceType {
	case "note":
		m.Note = &NoteMetadata{}
		return json.Unmarshal(data, m.Note)
	case "doc":
		m.Doc = &DocMetadata{}
		return json.Unmarshal(data, m.Doc)
	case "qset":
		m.Qset = &QsetMetadata{}
		return json.Unmarshal(data, m.Qset)
	case "folder":
		m.Folder = &FolderMetadata{}
		return json.Unmarshal(data, m.Folder)
	default:
		return nil
	}
}

// DecodeAs decodes the retained raw payload once the resource type is known.
func (m *Metadata) DecodeAs(resourceType string) error {
	return m.Decode(resourceType, m.raw)
}

// MarshalJSON writes back whichever variant is populated, falling back to the
// retained raw payload.
func (m Metadata) MarshalJSON() ([]byte, error) {
	switch {
	case m.Note != nil:
		return json.Marshal(m.Note)
	case m.Doc != nil:
		return json.Marshal(m.Doc)
	case m.Qset != nil:
		return json.Marshal(m.Qset)
	case m.Folder != nil:
		return json.Marshal(m.Folder)
	case len(m.raw) > 0:
		return m.raw, nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON retains the raw payload; Decode is called once the resource
// type is known.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	m.raw = append(m.raw[:0], data...)
	return nil
}
