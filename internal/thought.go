package internal

import "strings"

// Thought segment delimiters. Models that expose their reasoning wrap it in
// these markers at the start of the response.
const (
	thoughtOpen  = "<thought>"
	thoughtClose = "</thought>"
)

// ThoughtKind tags the parse state of a buffer with respect to the thought
// delimiters. Making the state explicit keeps mid-stream handling testable
// instead of inferring it from string inspection at every call site.
type ThoughtKind int

const (
	// ThoughtAbsent means no opening delimiter appears in the buffer.
	ThoughtAbsent ThoughtKind = iota
	// ThoughtPartial means the opening delimiter has arrived but the region
	// is not closed yet. The raw buffer should be rendered as-is until it is.
	ThoughtPartial
	// ThoughtComplete means a full delimited region was found and removed.
	ThoughtComplete
)

// ThoughtSplit is the result of separating a thought region from a buffer.
// Thinking is meaningful only when Kind is ThoughtComplete; it may be empty
// for an empty region ("present but empty").
type ThoughtSplit struct {
	Kind     ThoughtKind
	Thinking string
	Main     string
}

// SplitThought separates a bounded thought segment from a possibly
// still-growing buffer. Only the first complete region is recognized; any
// later occurrence of the opening delimiter is literal content. While the
// closing delimiter has not arrived the whole buffer stays in Main, so a
// partial thought is visibly rendered as ordinary content until the chunk
// that completes it.
func SplitThought(buffer string) ThoughtSplit {
	open := strings.Index(buffer, thoughtOpen)
	if open < 0 {
		return ThoughtSplit{Kind: ThoughtAbsent, Main: buffer}
	}

	rest := buffer[open+len(thoughtOpen):]
	closeIdx := strings.Index(rest, thoughtClose)
	if closeIdx < 0 {
		return ThoughtSplit{Kind: ThoughtPartial, Main: buffer}
	}

	thinking := strings.TrimSpace(rest[:closeIdx])
	main := buffer[:open] + rest[closeIdx+len(thoughtClose):]
	return ThoughtSplit{
		Kind:     ThoughtComplete,
		Thinking: thinking,
		Main:     strings.TrimSpace(main),
	}
}

// ThinkingValue returns the thought segment as the pipeline persists it: nil when
// no complete region exists, and optionally nil for an empty region when the
// caller's policy suppresses empty thoughts.
func (t ThoughtSplit) ThinkingValue(keepEmpty bool) *string {
	if t.Kind != ThoughtComplete {
		return nil
	}
	if t.Thinking == "" && !keepEmpty {
		return nil
	}
	thinking := t.Thinking
	return &thinking
}
