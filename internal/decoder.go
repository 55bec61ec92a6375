package internal

import (
	"encoding/json"
	"strings"
)

// StreamDecoder reassembles a sequence of text chunks into one logical
// buffer. Chunks are appended in arrival order and the buffer only ever
// grows, with a single exception: some deployments multiplex an error
// payload into the text stream as a complete JSON object, and such a chunk
// replaces the buffer instead of appending to it.
//
// A malformed chunk that is not the error convention is literal text and is
// appended as-is, never dropped.
type StreamDecoder struct {
	buf  strings.Builder
	err  *DecodeError
	done bool
}

// NewStreamDecoder creates an empty decoder
func NewStreamDecoder() *StreamDecoder {
	return &StreamDecoder{}
}

// Feed appends a chunk and returns the current buffer. Feeding after Finish
// is a no-op, which lets an abandoned stream drain without effect.
func (d *StreamDecoder) Feed(chunk string) string {
	if d.done {
		return d.buf.String()
	}
	if detail, ok := errorChunkDetail(chunk); ok {
		d.err = &DecodeError{Detail: detail}
		d.buf.Reset()
		d.buf.WriteString("Error: " + detail)
		return d.buf.String()
	}
	d.buf.WriteString(chunk)
	return d.buf.String()
}

// Buffer returns the accumulated text so far
func (d *StreamDecoder) Buffer() string {
	return d.buf.String()
}

// Err returns the stream error if an error chunk was received, else nil
func (d *StreamDecoder) Err() *DecodeError {
	return d.err
}

// Finish marks the stream complete and returns the final buffer
func (d *StreamDecoder) Finish() string {
	d.done = true
	return d.buf.String()
}

// Done reports whether Finish has been called
func (d *StreamDecoder) Done() bool {
	return d.done
}

// IsErrorChunk reports whether a chunk is a complete JSON error object of
// the form {"error": ...} that the transport slipped into the text stream.
func IsErrorChunk(chunk string) bool {
	_, ok := errorChunkDetail(chunk)
	return ok
}

// errorChunkDetail extracts the error detail from an inline error chunk.
// The error value may be a bare string or an object carrying a "message"
// field, matching what completion backends emit.
func errorChunkDetail(chunk string) (string, bool) {
	trimmed := strings.TrimSpace(chunk)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return "", false
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return "", false
	}
	raw, ok := payload["error"]
	if !ok {
		return "", false
	}

	var detail string
	if err := json.Unmarshal(raw, &detail); err == nil {
		return detail, true
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message, true
	}
	// An error key with an unrecognized shape still signals failure
	return string(raw), true
}
