package models

import "time"

// Sender identifies who produced a transcript record
type Sender int

const (
	SenderUser Sender = iota
	SenderBot
)

// String returns the sender name used in logs
func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderBot:
		return "bot"
	default:
		return "unknown"
	}
}

// Label returns the name shown next to a record on screen
func (s Sender) Label() string {
	if s == SenderUser {
		return "You"
	}
	return "Bot"
}

// Message is one transcript record.
// Records are values: once appended to a transcript they are never modified.
type Message struct {
	Sender    Sender
	Text      string
	RequestID string // exchange this record belongs to
	Err       error  // request failure for error records, nil otherwise
	Time      time.Time
}

// Failed reports whether the record describes a failed request
func (m Message) Failed() bool {
	return m.Err != nil
}

// Reply is a decoded successful response from the chat endpoint
type Reply struct {
	Text     string
	Language string // ISO code detected by the server, if reported
	AudioURL string
	ImageURL string
}
