package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pittawat/chatcore/internal"
)

// JSONLExporter exports sessions in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a session to JSONL format
func (e *JSONLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range session.Messages {
		obj := map[string]interface{}{
			"role":    msg.Role,
			"content": msg.Content,
		}

		if msg.Thinking != nil {
			obj["thinking"] = *msg.Thinking
		}
		if len(msg.Images) > 0 {
			obj["images"] = msg.Images
		}
		if !msg.CreatedAt.IsZero() {
			obj["created_at"] = msg.CreatedAt.Format(time.RFC3339)
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
