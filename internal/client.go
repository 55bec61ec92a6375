package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HistoryEntry is one prior exchange sent along with a new message
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of a send call
type ChatRequest struct {
	Message     string         `json:"message"`
	ChatID      string         `json:"chat_id,omitempty"`
	IdentityRef string         `json:"identity_ref,omitempty"`
	History     []HistoryEntry `json:"history"`
	Model       string         `json:"model"`
	ImageMode   bool           `json:"image_mode,omitempty"`
}

// ChatData is the payload of a successful non-streaming response
type ChatData struct {
	Message string   `json:"message"`
	Model   string   `json:"model,omitempty"`
	Images  []string `json:"images,omitempty"`
}

// ChatResponse is the envelope of a non-streaming response
type ChatResponse struct {
	Success bool     `json:"success"`
	Data    ChatData `json:"data"`
}

// SummaryRequest asks the backend to summarize a conversation
type SummaryRequest struct {
	ChatID      string         `json:"chat_id"`
	IdentityRef string         `json:"identity_ref,omitempty"`
	Messages    []HistoryEntry `json:"messages"`
}

// SummaryData is the payload of a summary response
type SummaryData struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Topics  []string `json:"topics,omitempty"`
}

// SummaryResponse is the envelope of a summary response
type SummaryResponse struct {
	Success bool        `json:"success"`
	Data    SummaryData `json:"data"`
}

// ChunkHandler receives each raw text chunk of a streamed response
type ChunkHandler func(chunk string)

// streamReadSize is the read buffer used when draining a chunked response.
const streamReadSize = 4 * 1024

// ChatClient talks to the completion backend. It supports both reception
// modes: a single JSON envelope and a stream of raw text chunks.
type ChatClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewChatClient creates a client from config
func NewChatClient(cfg Config) *ChatClient {
	return &ChatClient{
		baseURL:    cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

// Send performs a non-streaming chat call and returns the parsed envelope
func (c *ChatClient) Send(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	resp, err := c.post(ctx, "/chat", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var envelope ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return &envelope, nil
}

// SendStream performs a streaming chat call, delivering each raw text chunk
// to onChunk in arrival order. Blocks until the stream ends or ctx is
// cancelled.
func (c *ChatClient) SendStream(ctx context.Context, req ChatRequest, onChunk ChunkHandler) error {
	resp, err := c.post(ctx, "/chat", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	buf := make([]byte, streamReadSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := resp.Body.Read(buf)
		if n > 0 {
			onChunk(string(buf[:n]))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &TransportError{Err: fmt.Errorf("stream read failed: %w", err)}
		}
	}
}

// Ping checks that the endpoint is reachable. Any HTTP response counts as
// reachable; only connection-level failures are errors.
func (c *ChatClient) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return &TransportError{Err: err}
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &TransportError{Err: err}
	}
	resp.Body.Close()
	return nil
}

// Summarize asks the backend for a title and summary of a conversation
func (c *ChatClient) Summarize(ctx context.Context, req SummaryRequest) (*SummaryResponse, error) {
	resp, err := c.post(ctx, "/chat/summary", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var envelope SummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to decode summary: %w", err)}
	}
	return &envelope, nil
}

// post issues a JSON POST to the given path
func (c *ChatClient) post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}

// checkStatus converts a non-2xx response into a TransportError carrying the
// server's detail message when one is present. The body is consumed on error.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	terr := &TransportError{Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(body) > 0 {
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &detail) == nil && detail.Detail != "" {
			terr.Detail = detail.Detail
		} else {
			terr.Detail = string(body)
		}
	}
	return terr
}
