// Package gateway wraps the three HTTP contracts of the document-chat
// backend: persona catalog, document upload, and chat queries. It is the only
// component that performs network I/O and holds no state of its own.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"docchat/internal/app"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NetworkError reports a failed persona fetch. The caller decides the
// fallback policy; this is never shown to the user as an error.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// UploadError carries the backend's explanation for a failed document upload.
type UploadError struct {
	Reason string
}

func (e *UploadError) Error() string { return e.Reason }

// ChatError carries the backend's explanation for a failed chat query.
type ChatError struct {
	Reason string
}

func (e *ChatError) Error() string { return e.Reason }

type Client struct {
	BaseURL string
	HTTP    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 120 * time.Second},
		log:     logger,
	}
}

// FetchPersonas retrieves the persona catalog.
func (c *Client) FetchPersonas(ctx context.Context) (map[string]app.Persona, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/personas", nil)
	if err != nil {
		return nil, &NetworkError{Op: "fetch personas", Err: err}
	}
	request.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.HTTP.Do(request)
	if err != nil {
		return nil, &NetworkError{Op: "fetch personas", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, &NetworkError{Op: "fetch personas", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var personas map[string]app.Persona
	if err := json.NewDecoder(resp.Body).Decode(&personas); err != nil {
		return nil, &NetworkError{Op: "fetch personas", Err: err}
	}
	c.log.Info("personas fetched", zap.Int("count", len(personas)))
	return personas, nil
}

type uploadResponse struct {
	Success bool             `json:"success"`
	Stats   *app.UploadStats `json:"stats,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// UploadDocument sends doc as the multipart field "document". Chunking and
// parsing happen server-side; the reply only summarizes the result.
func (c *Client) UploadDocument(ctx context.Context, doc app.Document) (*app.UploadStats, error) {
	file, err := os.Open(doc.Path)
	if err != nil {
		return nil, &UploadError{Reason: fmt.Sprintf("cannot open %s: %v", doc.Path, err)}
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("document", doc.Name)
	if err != nil {
		return nil, &UploadError{Reason: fmt.Sprintf("encode upload: %v", err)}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &UploadError{Reason: fmt.Sprintf("read %s: %v", doc.Name, err)}
	}
	if err := writer.Close(); err != nil {
		return nil, &UploadError{Reason: fmt.Sprintf("encode upload: %v", err)}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload-document", &body)
	if err != nil {
		return nil, &UploadError{Reason: fmt.Sprintf("upload request failed: %v", err)}
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.HTTP.Do(request)
	if err != nil {
		return nil, &UploadError{Reason: fmt.Sprintf("upload request failed: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UploadError{Reason: fmt.Sprintf("read upload response: %v", err)}
	}

	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &UploadError{Reason: fmt.Sprintf("upload failed with status %d", resp.StatusCode)}
		}
		return nil, &UploadError{Reason: fmt.Sprintf("invalid upload response: %v", err)}
	}
	if !parsed.Success {
		reason := parsed.Error
		if reason == "" {
			reason = fmt.Sprintf("upload failed with status %d", resp.StatusCode)
		}
		return nil, &UploadError{Reason: reason}
	}

	c.log.Info("document uploaded",
		zap.String("file", doc.Name),
		zap.Int64("bytes", doc.Size),
		zap.Duration("took", time.Since(start)))
	return parsed.Stats, nil
}

type chatRequest struct {
	Query   string `json:"query"`
	Persona string `json:"persona"`
}

// SendChatQuery posts query with the selected persona key and returns the
// backend's reply.
func (c *Client) SendChatQuery(ctx context.Context, query, personaKey string) (*app.ChatReply, error) {
	payload, err := json.Marshal(chatRequest{Query: query, Persona: personaKey})
	if err != nil {
		return nil, &ChatError{Reason: fmt.Sprintf("encode chat request: %v", err)}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, &ChatError{Reason: fmt.Sprintf("chat request failed: %v", err)}
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.HTTP.Do(request)
	if err != nil {
		return nil, &ChatError{Reason: fmt.Sprintf("chat request failed: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ChatError{Reason: fmt.Sprintf("read chat response: %v", err)}
	}

	if resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &errResp)
		if errResp.Error != "" {
			return nil, &ChatError{Reason: errResp.Error}
		}
		return nil, &ChatError{Reason: "Failed to get response"}
	}

	var reply app.ChatReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, &ChatError{Reason: fmt.Sprintf("invalid chat response: %v", err)}
	}
	c.log.Info("chat reply received", zap.String("persona", personaKey), zap.Int("sources", len(reply.Sources)))
	return &reply, nil
}
