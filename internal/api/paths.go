package api

// GJSON paths for values in chat endpoint responses
const (
	PathResponse = "response"
	PathError    = "error"
	PathLanguage = "language"
	PathAudioURL = "audio_url"
	PathImageURL = "image_url"
)

// maxErrorDetail caps how much of a non-JSON error body is kept
const maxErrorDetail = 256

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 4 << 20
