package export

import (
	"io"

	"github.com/pittawat/chatcore/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports sessions in YAML format
type YAMLExporter struct{}

// Export exports a session to YAML format
func (e *YAMLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(sessionDoc(session))
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}

// sessionDoc shapes a session for YAML output; the stored JSON tags do not
// apply here
func sessionDoc(session *internal.Session) map[string]interface{} {
	messages := make([]map[string]interface{}, 0, len(session.Messages))
	for _, msg := range session.Messages {
		doc := map[string]interface{}{
			"role":    msg.Role,
			"content": msg.Content,
		}
		if msg.Thinking != nil {
			doc["thinking"] = *msg.Thinking
		}
		if len(msg.Images) > 0 {
			doc["images"] = msg.Images
		}
		messages = append(messages, doc)
	}
	return map[string]interface{}{
		"id":         session.ID,
		"title":      session.Title,
		"updated_at": session.UpdatedAt,
		"messages":   messages,
	}
}
