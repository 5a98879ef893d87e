package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxUploadBytes is the client-side upload cap, enforced before transmission.
const MaxUploadBytes = 50 * 1024 * 1024

// allowedExtensions lists the document types the backend can ingest.
var allowedExtensions = []string{".pdf", ".csv", ".txt", ".docx", ".doc", ".vtt", ".srt", ".json", ".xml"}

// Gateway is the backend surface the session depends on. Implementations are
// stateless and perform all network I/O for the client.
type Gateway interface {
	FetchPersonas(ctx context.Context) (map[string]Persona, error)
	UploadDocument(ctx context.Context, doc Document) (*UploadStats, error)
	SendChatQuery(ctx context.Context, query, personaKey string) (*ChatReply, error)
}

// Session owns all mutable client state: the transcript, the persona catalog,
// the active persona, the last upload outcome, and the in-flight guards.
// Methods are safe for concurrent use; the transcript is append-only except
// for the wholesale replacement performed by a successful upload.
type Session struct {
	mu sync.Mutex

	id        string
	gw        Gateway
	log       *zap.Logger
	messages  []Message
	personas  map[string]Persona
	selected  string
	status    *UploadStatus
	loading   bool
	uploading bool
	lastID    int64
}

// SessionView is an immutable snapshot handed to the presentation layer.
type SessionView struct {
	Messages     []Message
	Personas     map[string]Persona
	PersonaKeys  []string
	Selected     string
	UploadStatus *UploadStatus
	IsLoading    bool
	IsUploading  bool
}

// ActivePersona resolves the selected key against the catalog. Selecting an
// unknown key is permitted; it simply yields no persona metadata.
func (v SessionView) ActivePersona() (Persona, bool) {
	p, ok := v.Personas[v.Selected]
	return p, ok
}

func NewSession(gw Gateway, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:       uuid.NewString(),
		gw:       gw,
		log:      logger,
		personas: map[string]Persona{},
		selected: "friendly",
	}
}

// ID identifies this session in logs.
func (s *Session) ID() string { return s.id }

// Snapshot returns a copy of the session state. The copy shares no mutable
// data with the session, so callers may hold it across renders.
func (s *Session) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := SessionView{
		Messages:    append([]Message(nil), s.messages...),
		Personas:    make(map[string]Persona, len(s.personas)),
		Selected:    s.selected,
		IsLoading:   s.loading,
		IsUploading: s.uploading,
	}
	for k, p := range s.personas {
		v.Personas[k] = p
		v.PersonaKeys = append(v.PersonaKeys, k)
	}
	sort.Strings(v.PersonaKeys)
	if s.status != nil {
		st := *s.status
		v.UploadStatus = &st
	}
	return v
}

// LoadPersonas fetches the persona catalog from the gateway. Failure is fully
// absorbed: the compiled-in defaults are installed instead so the UI always
// has a non-empty persona set. The catalog is immutable once loaded.
func (s *Session) LoadPersonas(ctx context.Context) {
	personas, err := s.gw.FetchPersonas(ctx)
	if err != nil || len(personas) == 0 {
		if err != nil {
			s.log.Warn("persona fetch failed, using defaults", zap.String("session", s.id), zap.Error(err))
		}
		personas = DefaultPersonas()
	}
	s.mu.Lock()
	s.personas = personas
	s.mu.Unlock()
}

// SelectPersona sets the active persona. The key is not validated against the
// catalog.
func (s *Session) SelectPersona(key string) {
	s.mu.Lock()
	s.selected = key
	s.mu.Unlock()
}

// StatDocument builds an upload descriptor for a local path. Unreadable paths
// surface as ValidationError since they are user-correctable.
func StatDocument(path string) (Document, error) {
	if strings.TrimSpace(path) == "" {
		return Document{}, &ValidationError{Reason: "no file selected"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, &ValidationError{Reason: fmt.Sprintf("cannot read %s: %v", path, err)}
	}
	if info.IsDir() {
		return Document{}, &ValidationError{Reason: fmt.Sprintf("%s is a directory", path)}
	}
	return Document{Name: filepath.Base(path), Size: info.Size(), Path: path}, nil
}

// ValidateDocument applies the pre-network upload rules: a file must be
// chosen, fit under MaxUploadBytes, and carry an allowed extension.
func ValidateDocument(doc Document) error {
	if doc.Name == "" {
		return &ValidationError{Reason: "no file selected"}
	}
	if doc.Size > MaxUploadBytes {
		return &ValidationError{Reason: "file size must be less than 50MB"}
	}
	ext := strings.ToLower(filepath.Ext(doc.Name))
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return &ValidationError{Reason: fmt.Sprintf("unsupported file type %q: expected one of %s", ext, strings.Join(allowedExtensions, ", "))}
}

// SubmitUpload validates doc and, if it passes, sends it to the backend.
// Validation failures return before any state change. On success the
// transcript is replaced with a single system message describing the loaded
// document; on failure the transcript is left untouched and the error is
// recorded as the upload status. The uploading flag is released on every exit
// path.
func (s *Session) SubmitUpload(ctx context.Context, doc Document) error {
	if err := ValidateDocument(doc); err != nil {
		return err
	}

	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return nil
	}
	s.uploading = true
	s.status = nil
	s.mu.Unlock()

	stats, err := s.gw.UploadDocument(ctx, doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploading = false

	if err != nil {
		s.log.Error("upload failed", zap.String("session", s.id), zap.String("file", doc.Name), zap.Error(err))
		s.status = &UploadStatus{
			Type:    UploadFailure,
			Message: fmt.Sprintf("❌ Upload failed: %v", err),
		}
		return err
	}

	filename := doc.Name
	fileType := "unknown"
	chunks := 0
	if stats != nil {
		if stats.Filename != "" {
			filename = stats.Filename
		}
		if stats.FileType != "" {
			fileType = stats.FileType
		}
		chunks = stats.TotalChunks
	}

	s.status = &UploadStatus{
		Type:    UploadSuccess,
		Message: fmt.Sprintf("✅ Successfully processed %s (%d chunks, %s)", doc.Name, chunks, fileType),
		Stats:   stats,
	}
	s.messages = []Message{{
		ID:        s.nextID(),
		Kind:      KindSystem,
		Content:   fmt.Sprintf("Loaded document: %s (%s)", filename, fileType),
		Timestamp: time.Now(),
		Stats:     stats,
	}}
	s.log.Info("document loaded", zap.String("session", s.id), zap.String("file", filename), zap.Int("chunks", chunks))
	return nil
}

// SubmitMessage sends text to the backend with the active persona. It is a
// no-op when text is blank or a chat request is already in flight; that guard
// is the only backpressure mechanism, so at most one request is outstanding.
// The user message is appended before the network call is issued. Exactly one
// further message (bot or error) is appended once the call resolves, and the
// loading flag is released on every exit path.
func (s *Session) SubmitMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	personaKey := s.selected
	s.messages = append(s.messages, Message{
		ID:        s.nextID(),
		Kind:      KindUser,
		Content:   text,
		Timestamp: time.Now(),
	})
	s.mu.Unlock()

	reply, err := s.gw.SendChatQuery(ctx, text, personaKey)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.log.Error("chat query failed", zap.String("session", s.id), zap.String("persona", personaKey), zap.Error(err))
		s.messages = append(s.messages, Message{
			ID:        s.nextID(),
			Kind:      KindError,
			Content:   fmt.Sprintf("Error: %v", err),
			Timestamp: time.Now(),
		})
		return err
	}

	s.messages = append(s.messages, Message{
		ID:        s.nextID(),
		Kind:      KindBot,
		Content:   reply.Response,
		Timestamp: time.Now(),
		Persona:   reply.Persona,
		Emoji:     reply.Emoji,
		Sources:   reply.Sources,
	})
	return nil
}

// ClearTranscript drops all messages. Persona selection and upload status are
// kept.
func (s *Session) ClearTranscript() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
}

// nextID hands out creation-time tokens that stay strictly increasing even
// when two messages land in the same nanosecond. Callers hold s.mu.
func (s *Session) nextID() int64 {
	id := time.Now().UnixNano()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
