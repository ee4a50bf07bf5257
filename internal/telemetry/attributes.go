package telemetry

import "go.opentelemetry.io/otel/attribute"

// Attribute keys shared by spans and metrics
const (
	OutcomeKey    = attribute.Key("mcchat.outcome")
	RequestIDKey  = attribute.Key("mcchat.request_id")
	StatusCodeKey = attribute.Key("http.response.status_code")
	ErrorKindKey  = attribute.Key("mcchat.error_kind")
)

// Outcome values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
