package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/diogo/mcchat/internal/models"
)

// Format is an output format for a transcript dump
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatMarkdown, FormatJSON, FormatText:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown transcript format %q (use markdown, json or text)", name)
	}
}

// Export renders messages in the given format
func Export(messages []models.Message, format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return []byte(ToMarkdown(messages)), nil
	case FormatJSON:
		return ToJSON(messages)
	case FormatText:
		return []byte(ToText(messages)), nil
	default:
		return nil, fmt.Errorf("unknown transcript format %q", format)
	}
}

// ToMarkdown renders messages as a Markdown document
func ToMarkdown(messages []models.Message) string {
	var sb strings.Builder

	sb.WriteString("# Chat transcript\n\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(messages)))

	for i, msg := range messages {
		sb.WriteString("## ")
		sb.WriteString(msg.Sender.Label())
		if !msg.Time.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.Time.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		if msg.Failed() {
			sb.WriteString("> ")
		}
		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ToText renders messages as "Label: text" lines
func ToText(messages []models.Message) string {
	var sb strings.Builder
	for _, msg := range messages {
		sb.WriteString(msg.Sender.Label())
		sb.WriteString(": ")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

type exportMessage struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	RequestID string    `json:"request_id,omitempty"`
	Error     bool      `json:"error,omitempty"`
	Time      time.Time `json:"time"`
}

// ToJSON renders messages as an indented JSON array
func ToJSON(messages []models.Message) ([]byte, error) {
	out := make([]exportMessage, len(messages))
	for i, msg := range messages {
		out[i] = exportMessage{
			Sender:    msg.Sender.String(),
			Text:      msg.Text,
			RequestID: msg.RequestID,
			Error:     msg.Failed(),
			Time:      msg.Time,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
