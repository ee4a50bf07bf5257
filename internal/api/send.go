package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apierrors "github.com/diogo/mcchat/internal/errors"
	"github.com/diogo/mcchat/internal/models"
	"github.com/diogo/mcchat/internal/telemetry"
)

// errClientClosed is the cause reported when sending on a closed client
var errClientClosed = errors.New("client is closed")

// Send posts text to the chat endpoint and returns the decoded reply.
// Every failure is a *errors.RequestError.
func (c *Client) Send(ctx context.Context, text string) (*models.Reply, error) {
	if c.IsClosed() {
		return nil, apierrors.NewTransportError(c.endpoint, errClientClosed)
	}

	ctx, span := c.tracer.Start(ctx, "chat.send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()
	reply, status, err := c.doSend(ctx, text)
	elapsed := time.Since(start)

	if status > 0 {
		span.SetAttributes(telemetry.StatusCodeKey.Int(status))
	}

	if err != nil {
		kind := apierrors.KindOf(err)
		span.SetAttributes(telemetry.ErrorKindKey.String(kind.String()))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.instruments.RecordRequest(ctx, telemetry.OutcomeFailure, elapsed)
		c.logger.Warn("chat request failed",
			"endpoint", c.endpoint,
			"kind", kind.String(),
			"status", status,
			"elapsed", elapsed,
			"error", err)
		return nil, err
	}

	c.instruments.RecordRequest(ctx, telemetry.OutcomeSuccess, elapsed)
	c.logger.Debug("chat request completed",
		"endpoint", c.endpoint,
		"status", status,
		"elapsed", elapsed,
		"reply_len", len(reply.Text))
	return reply, nil
}

// doSend performs the request and returns the HTTP status when one was received
func (c *Client) doSend(ctx context.Context, text string) (*models.Reply, int, error) {
	body, contentType, err := buildForm(text, c.companion, c.restrict)
	if err != nil {
		return nil, 0, apierrors.NewTransportError(c.endpoint, fmt.Errorf("failed to build form: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, 0, apierrors.NewTransportError(c.endpoint, err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, apierrors.NewTransportError(c.endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, apierrors.NewTransportError(c.endpoint, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, apierrors.NewHTTPStatusError(resp.StatusCode, c.endpoint, errorDetail(data))
	}

	reply, err := parseReply(data, c.endpoint)
	return reply, resp.StatusCode, err
}

// buildForm encodes the multipart body: the message text and the fixed output type
func buildForm(text string, companion, restrictScope bool) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(models.FieldText, text); err != nil {
		return nil, "", err
	}
	if err := w.WriteField(models.FieldOutputType, models.OutputTypeText); err != nil {
		return nil, "", err
	}
	if companion {
		if err := w.WriteField(models.FieldCompanionMode, models.CheckboxOn); err != nil {
			return nil, "", err
		}
	}
	if restrictScope {
		if err := w.WriteField(models.FieldRestrictScope, models.CheckboxOn); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

// parseReply decodes a successful response body
func parseReply(body []byte, endpoint string) (*models.Reply, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, apierrors.NewDecodeError(endpoint, "empty response body", "", nil)
	}
	if !gjson.ValidBytes(trimmed) {
		return nil, apierrors.NewDecodeError(endpoint, "response is not valid JSON", "", nil)
	}

	parsed := gjson.ParseBytes(trimmed)
	if !parsed.IsObject() {
		return nil, apierrors.NewDecodeError(endpoint, "response is not a JSON object", "", nil)
	}

	response := parsed.Get(PathResponse)
	if !response.Exists() {
		msg := "missing response field"
		if serverErr := parsed.Get(PathError); serverErr.Exists() {
			msg += ": server reported " + serverErr.String()
		}
		return nil, apierrors.NewDecodeError(endpoint, msg, PathResponse, nil)
	}
	if response.Type == gjson.Null {
		return nil, apierrors.NewDecodeError(endpoint, "response field is null", PathResponse, nil)
	}

	return &models.Reply{
		Text:     response.String(),
		Language: parsed.Get(PathLanguage).String(),
		AudioURL: parsed.Get(PathAudioURL).String(),
		ImageURL: parsed.Get(PathImageURL).String(),
	}, nil
}

// errorDetail extracts a human-readable message from an error response body.
// JSON bodies of the form {"error": "..."} yield the error string; anything else
// is trimmed and truncated.
func errorDetail(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	if gjson.ValidBytes(trimmed) {
		if e := gjson.GetBytes(trimmed, PathError); e.Exists() && e.Type != gjson.Null {
			return e.String()
		}
	}

	detail := strings.Join(strings.Fields(string(trimmed)), " ")
	if len(detail) > maxErrorDetail {
		detail = detail[:maxErrorDetail] + "..."
	}
	return detail
}
