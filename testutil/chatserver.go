package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// ChatServerConfig controls how the fake completion backend responds.
// When Chunks is non-empty the /chat endpoint streams them as raw text;
// otherwise it answers with a single JSON envelope around ReplyMessage.
// A non-zero FailStatus makes /chat fail with {"detail": FailDetail}.
type ChatServerConfig struct {
	ReplyMessage string
	Images       []string
	Chunks       []string
	ChunkDelay   time.Duration
	FailStatus   int
	FailDetail   string
	SummaryTitle string
}

// ChatServer is an httptest-backed fake of the completion backend
type ChatServer struct {
	Server *httptest.Server
	Config ChatServerConfig

	mu       sync.Mutex
	requests [][]byte
}

// NewChatServer starts a fake backend; it is closed when the test ends
func NewChatServer(t *testing.T, cfg ChatServerConfig) *ChatServer {
	t.Helper()

	cs := &ChatServer{Config: cfg}
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", cs.handleChat)
	mux.HandleFunc("/chat/summary", cs.handleSummary)
	cs.Server = httptest.NewServer(mux)
	t.Cleanup(cs.Server.Close)
	return cs
}

// URL returns the backend base URL
func (cs *ChatServer) URL() string {
	return cs.Server.URL
}

// Requests returns the raw bodies of all /chat calls received so far
func (cs *ChatServer) Requests() [][]byte {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([][]byte, len(cs.requests))
	copy(out, cs.requests)
	return out
}

// LastRequest decodes the most recent /chat body into a generic map,
// or nil when no call happened
func (cs *ChatServer) LastRequest(t *testing.T) map[string]interface{} {
	t.Helper()
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if len(cs.requests) == 0 {
		return nil
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(cs.requests[len(cs.requests)-1], &decoded); err != nil {
		t.Fatalf("Failed to decode captured request: %v", err)
	}
	return decoded
}

func (cs *ChatServer) handleChat(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	cs.mu.Lock()
	cs.requests = append(cs.requests, body)
	cs.mu.Unlock()

	if cs.Config.FailStatus != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(cs.Config.FailStatus)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": cs.Config.FailDetail})
		return
	}

	if len(cs.Config.Chunks) > 0 {
		w.Header().Set("Content-Type", "text/plain")
		flusher, _ := w.(http.Flusher)
		for _, chunk := range cs.Config.Chunks {
			_, _ = io.WriteString(w, chunk)
			if flusher != nil {
				flusher.Flush()
			}
			if cs.Config.ChunkDelay > 0 {
				time.Sleep(cs.Config.ChunkDelay)
			}
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"message": cs.Config.ReplyMessage,
			"images":  cs.Config.Images,
		},
	})
}

func (cs *ChatServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	_, _ = io.ReadAll(r.Body)

	title := cs.Config.SummaryTitle
	if title == "" {
		title = "Summary"
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"title":   title,
			"summary": "A short conversation.",
			"topics":  []string{"general"},
		},
	})
}
