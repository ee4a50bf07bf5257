// Package models contains data types and constants for the chat API.
package models

// DefaultEndpoint is the deployed chat API
const DefaultEndpoint = "https://mcintire-chatbot-ed1de2ff18cc.herokuapp.com/chat"

// Multipart form fields understood by the chat endpoint
const (
	FieldText          = "text"
	FieldOutputType    = "output_type"
	FieldCompanionMode = "mh_mode"
	FieldRestrictScope = "restrict_scope"

	// OutputTypeText asks the server for a plain text answer
	OutputTypeText = "text"

	// CheckboxOn is the value the server tests checkbox fields for
	CheckboxOn = "on"
)

// DefaultHeaders returns the headers sent with every chat request.
// Content-Type is set per request since it carries the multipart boundary.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":          "application/json",
		"Accept-Language": "en-US,en;q=0.9",
		"User-Agent":      "mcchat/1.0 (+https://github.com/diogo/mcchat)",
	}
}
