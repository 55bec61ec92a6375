package internal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pittawat/chatcore/testutil"
)

func clientFor(server *testutil.ChatServer) *ChatClient {
	return NewChatClient(Config{
		Endpoint:       server.URL(),
		APIKey:         "test-key",
		Model:          "test/model",
		TimeoutSeconds: 10,
	})
}

func TestChatClient_Send(t *testing.T) {
	server := testutil.NewChatServer(t, testutil.ChatServerConfig{
		ReplyMessage: "Hello back",
		Images:       []string{"http://img/1.png"},
	})
	client := clientFor(server)

	resp, err := client.Send(context.Background(), ChatRequest{
		Message: "Hello",
		ChatID:  "sess-1",
		Model:   "test/model",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !resp.Success {
		t.Error("Send() Success = false, want true")
	}
	if resp.Data.Message != "Hello back" {
		t.Errorf("Send() Message = %q, want Hello back", resp.Data.Message)
	}
	if len(resp.Data.Images) != 1 || resp.Data.Images[0] != "http://img/1.png" {
		t.Errorf("Send() Images = %v", resp.Data.Images)
	}

	req := server.LastRequest(t)
	if req["message"] != "Hello" {
		t.Errorf("Request message = %v, want Hello", req["message"])
	}
	if req["chat_id"] != "sess-1" {
		t.Errorf("Request chat_id = %v, want sess-1", req["chat_id"])
	}
}

func TestChatClient_SendCarriesHistory(t *testing.T) {
	server := testutil.NewChatServer(t, testutil.ChatServerConfig{ReplyMessage: "ok"})
	client := clientFor(server)

	_, err := client.Send(context.Background(), ChatRequest{
		Message: "And now?",
		History: []HistoryEntry{
			{Role: RoleUser, Content: "before"},
			{Role: RoleAssistant, Content: "earlier answer"},
		},
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	req := server.LastRequest(t)
	history, ok := req["history"].([]interface{})
	if !ok || len(history) != 2 {
		t.Fatalf("Request history = %v, want 2 entries", req["history"])
	}
	first := history[0].(map[string]interface{})
	if first["role"] != RoleUser || first["content"] != "before" {
		t.Errorf("First history entry = %v", first)
	}
}

func TestChatClient_SendServerError(t *testing.T) {
	server := testutil.NewChatServer(t, testutil.ChatServerConfig{
		FailStatus: 401,
		FailDetail: "Invalid API key",
	})
	client := clientFor(server)

	_, err := client.Send(context.Background(), ChatRequest{Message: "hi"})
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("Send() error = %v, want *TransportError", err)
	}
	if terr.Status != 401 {
		t.Errorf("Status = %d, want 401", terr.Status)
	}
	if terr.Detail != "Invalid API key" {
		t.Errorf("Detail = %q, want Invalid API key", terr.Detail)
	}
}

func TestChatClient_SendStream(t *testing.T) {
	chunks := []string{"The ", "answer ", "is 42."}
	server := testutil.NewChatServer(t, testutil.ChatServerConfig{Chunks: chunks})
	client := clientFor(server)

	var received strings.Builder
	err := client.SendStream(context.Background(), ChatRequest{Message: "question"}, func(chunk string) {
		received.WriteString(chunk)
	})
	if err != nil {
		t.Fatalf("SendStream() error = %v", err)
	}
	if received.String() != "The answer is 42." {
		t.Errorf("SendStream() received = %q, want the full text in order", received.String())
	}
}

func TestChatClient_SendStreamServerError(t *testing.T) {
	server := testutil.NewChatServer(t, testutil.ChatServerConfig{
		FailStatus: 503,
		FailDetail: "overloaded",
	})
	client := clientFor(server)

	err := client.SendStream(context.Background(), ChatRequest{Message: "hi"}, func(string) {
		t.Error("No chunks should be delivered on a failed call")
	})
	var terr *TransportError
	if !errors.As(err, &terr) || terr.Status != 503 {
		t.Errorf("SendStream() error = %v, want 503 TransportError", err)
	}
}

func TestChatClient_SendStreamCancellation(t *testing.T) {
	server := testutil.NewChatServer(t, testutil.ChatServerConfig{
		Chunks:     []string{"a", "b", "c", "d", "e"},
		ChunkDelay: 50 * time.Millisecond,
	})
	client := clientFor(server)

	ctx, cancel := context.WithCancel(context.Background())
	gotFirst := make(chan struct{})
	var once bool

	err := client.SendStream(ctx, ChatRequest{Message: "hi"}, func(string) {
		if !once {
			once = true
			close(gotFirst)
			cancel()
		}
	})
	<-gotFirst
	if err == nil {
		t.Fatal("SendStream() should fail once the context is cancelled")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("SendStream() error = %v, want context.Canceled in chain", err)
	}
}

func TestChatClient_Summarize(t *testing.T) {
	server := testutil.NewChatServer(t, testutil.ChatServerConfig{SummaryTitle: "Trip planning"})
	client := clientFor(server)

	resp, err := client.Summarize(context.Background(), SummaryRequest{
		ChatID:   "sess-1",
		Messages: []HistoryEntry{{Role: RoleUser, Content: "plan a trip"}},
	})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if resp.Data.Title != "Trip planning" {
		t.Errorf("Summarize() Title = %q, want Trip planning", resp.Data.Title)
	}
}

func TestChatClient_Ping(t *testing.T) {
	server := testutil.NewChatServer(t, testutil.ChatServerConfig{})
	client := clientFor(server)

	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v, want nil while the server is up", err)
	}

	server.Server.Close()
	if err := client.Ping(context.Background()); err == nil {
		t.Error("Ping() should fail once the server is down")
	}
}
