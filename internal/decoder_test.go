package internal

import (
	"strings"
	"testing"
)

func TestStreamDecoder_AppendsChunksInOrder(t *testing.T) {
	d := NewStreamDecoder()

	if got := d.Feed("Hello, "); got != "Hello, " {
		t.Errorf("Feed() = %q, want Hello, ", got)
	}
	if got := d.Feed("world"); got != "Hello, world" {
		t.Errorf("Feed() = %q, want Hello, world", got)
	}
	if got := d.Finish(); got != "Hello, world" {
		t.Errorf("Finish() = %q, want Hello, world", got)
	}
	if d.Err() != nil {
		t.Errorf("Err() = %v, want nil", d.Err())
	}
}

func TestStreamDecoder_ChunkingInvariance(t *testing.T) {
	// The final buffer must not depend on where chunk boundaries fall
	full := "The answer is <thought>thinking hard</thought> forty-two."

	splits := [][]string{
		{full},
		{full[:1], full[1:]},
		{full[:10], full[10:25], full[25:]},
	}
	// One-byte chunks, the worst case
	var bytes []string
	for i := 0; i < len(full); i++ {
		bytes = append(bytes, full[i:i+1])
	}
	splits = append(splits, bytes)

	for i, chunks := range splits {
		d := NewStreamDecoder()
		for _, chunk := range chunks {
			d.Feed(chunk)
		}
		if got := d.Finish(); got != full {
			t.Errorf("split %d: Finish() = %q, want %q", i, got, full)
		}
	}
}

func TestStreamDecoder_ErrorChunkReplacesBuffer(t *testing.T) {
	d := NewStreamDecoder()
	d.Feed("Partial answer that will be disc")

	got := d.Feed(`{"error": "Rate limit exceeded"}`)
	if got != "Error: Rate limit exceeded" {
		t.Errorf("Feed(error chunk) = %q, want the buffer replaced", got)
	}
	if d.Err() == nil || d.Err().Detail != "Rate limit exceeded" {
		t.Errorf("Err() = %v, want detail Rate limit exceeded", d.Err())
	}
	if d.Finish() != "Error: Rate limit exceeded" {
		t.Errorf("Finish() = %q, want the error text", d.Finish())
	}
}

func TestStreamDecoder_ErrorObjectWithMessage(t *testing.T) {
	d := NewStreamDecoder()
	d.Feed(`{"error": {"message": "Model overloaded", "code": 503}}`)

	if d.Err() == nil || d.Err().Detail != "Model overloaded" {
		t.Errorf("Err() = %v, want detail Model overloaded", d.Err())
	}
}

func TestStreamDecoder_MalformedJSONIsLiteralText(t *testing.T) {
	d := NewStreamDecoder()

	// Braces alone do not make an error chunk
	d.Feed("{not json}")
	d.Feed(` and {"ok": 1} too`)

	want := `{not json} and {"ok": 1} too`
	if got := d.Buffer(); got != want {
		t.Errorf("Buffer() = %q, want %q", got, want)
	}
	if d.Err() != nil {
		t.Errorf("Err() = %v, want nil for literal text", d.Err())
	}
}

func TestStreamDecoder_FeedAfterFinishIsNoop(t *testing.T) {
	d := NewStreamDecoder()
	d.Feed("final")
	d.Finish()

	if got := d.Feed(" late chunk"); got != "final" {
		t.Errorf("Feed() after Finish = %q, want unchanged final", got)
	}
	if !d.Done() {
		t.Error("Done() = false after Finish")
	}
}

func TestIsErrorChunk(t *testing.T) {
	tests := []struct {
		chunk string
		want  bool
	}{
		{`{"error": "boom"}`, true},
		{`  {"error": "boom"}  `, true},
		{`{"error": {"message": "boom"}}`, true},
		{`{"error": 42}`, true},
		{`{"data": "fine"}`, false},
		{`plain text`, false},
		{`{broken`, false},
		{``, false},
	}

	for _, tt := range tests {
		if got := IsErrorChunk(tt.chunk); got != tt.want {
			t.Errorf("IsErrorChunk(%q) = %v, want %v", tt.chunk, got, tt.want)
		}
	}
}

func TestStreamDecoder_LargeStream(t *testing.T) {
	d := NewStreamDecoder()
	chunk := strings.Repeat("lorem ipsum ", 100)
	for i := 0; i < 50; i++ {
		d.Feed(chunk)
	}
	if len(d.Finish()) != 50*len(chunk) {
		t.Errorf("Finish() length = %d, want %d", len(d.Buffer()), 50*len(chunk))
	}
}
