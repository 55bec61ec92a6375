package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/pittawat/chatcore/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.Session, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", session.Title)
	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", session.ID)
	_, _ = fmt.Fprintf(w, "**Updated:** %s  \n", session.UpdatedAt.Format("2006-01-02 15:04"))
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range session.Messages {
		label := "User"
		if msg.Role == internal.RoleAssistant {
			label = "Assistant"
		}
		timestamp := ""
		if !msg.CreatedAt.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", msg.CreatedAt.Format("15:04"))
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n", label, timestamp)

		// Thinking renders as a quoted block before the answer, matching the
		// collapsed section the UI shows
		if msg.Thinking != nil {
			_, _ = fmt.Fprintf(w, "> *Thinking*\n")
			for _, line := range strings.Split(*msg.Thinking, "\n") {
				_, _ = fmt.Fprintf(w, "> %s\n", line)
			}
			_, _ = fmt.Fprint(w, "\n")
		}

		_, _ = fmt.Fprintf(w, "%s\n\n", msg.Content)

		for _, image := range msg.Images {
			_, _ = fmt.Fprintf(w, "![image](%s)\n\n", image)
		}

		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
