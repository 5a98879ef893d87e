package app

import "time"

// MessageKind discriminates transcript entries.
type MessageKind string

const (
	KindUser   MessageKind = "user"
	KindBot    MessageKind = "bot"
	KindSystem MessageKind = "system"
	KindError  MessageKind = "error"
)

// Message is one entry in the chat transcript. Messages are append-only and
// never mutated after creation; ID increases monotonically within a session.
type Message struct {
	ID        int64       `json:"id"`
	Kind      MessageKind `json:"kind"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`

	// Bot replies carry the persona that produced them and any citations.
	Persona string            `json:"persona,omitempty"`
	Emoji   string            `json:"emoji,omitempty"`
	Sources []SourceReference `json:"sources,omitempty"`

	// System messages produced by a document load carry ingestion stats.
	Stats *UploadStats `json:"stats,omitempty"`
}

// SourceReference is a citation backing a bot reply. Time fields are set for
// time-based media (VTT/SRT); the metadata keys are a loose bag because the
// backend does not enforce mutual exclusivity between them.
type SourceReference struct {
	Text      string         `json:"text"`
	StartTime string         `json:"startTime,omitempty"`
	EndTime   string         `json:"endTime,omitempty"`
	Metadata  SourceMetadata `json:"metadata,omitempty"`
}

type SourceMetadata struct {
	Page     int    `json:"page,omitempty"`
	Section  string `json:"section,omitempty"`
	Location string `json:"location,omitempty"`
	Speaker  string `json:"speaker,omitempty"`
}

// Persona is a named assistant configuration served by the backend.
type Persona struct {
	Name   string `json:"name"`
	Emoji  string `json:"emoji"`
	Prompt string `json:"prompt"`
}

// DefaultPersonas is the compiled-in catalog used when the backend cannot be
// reached. The keys and copy mirror what the backend serves by default.
func DefaultPersonas() map[string]Persona {
	return map[string]Persona{
		"friendly":  {Name: "Friendly Assistant", Emoji: "😊", Prompt: "I'm a friendly and helpful assistant."},
		"technical": {Name: "Technical Expert", Emoji: "🔧", Prompt: "I provide detailed technical analysis."},
		"creative":  {Name: "Creative Helper", Emoji: "🎨", Prompt: "I help with creative tasks and ideas."},
	}
}

// UploadStats summarizes a processed document as reported by the backend.
type UploadStats struct {
	Filename       string `json:"filename"`
	FileType       string `json:"fileType"`
	TotalChunks    int    `json:"totalChunks"`
	TotalSubtitles int    `json:"totalSubtitles,omitempty"`
}

// UploadStatusType is the outcome of the last upload attempt.
type UploadStatusType string

const (
	UploadSuccess UploadStatusType = "success"
	UploadFailure UploadStatusType = "error"
)

// UploadStatus records the last document upload outcome. It is replaced
// wholesale on each attempt, never merged.
type UploadStatus struct {
	Type    UploadStatusType `json:"type"`
	Message string           `json:"message"`
	Stats   *UploadStats     `json:"stats,omitempty"`
}

// ChatReply is the backend's answer to a chat query.
type ChatReply struct {
	Response string            `json:"response"`
	Persona  string            `json:"persona"`
	Emoji    string            `json:"emoji"`
	Sources  []SourceReference `json:"sources"`
}

// Document describes a local file picked for upload. Size is captured at
// selection time so validation can run before any I/O.
type Document struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Path string `json:"path"`
}
