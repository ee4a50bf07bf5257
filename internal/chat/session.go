// Package chat runs the message exchange cycle between the user and the chat
// endpoint, recording every exchange in a transcript.
//
// A non-empty message always produces exactly two transcript records: the
// user's text, appended before the request is sent, and one bot record once
// the request settles. The bot record holds either the reply text or the
// formatted request error.
//
// Event-driven frontends use the split form: Submit on the UI goroutine,
// Exchange on any goroutine, Settle back on the UI goroutine. SendMessage
// runs all three in sequence.
package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/mcchat/internal/api"
	apierrors "github.com/diogo/mcchat/internal/errors"
	"github.com/diogo/mcchat/internal/models"
	"github.com/diogo/mcchat/internal/transcript"
)

// ErrorFormatter turns a request error into the text of a bot record
type ErrorFormatter func(err error) string

// FormatError is the default ErrorFormatter
func FormatError(err error) string {
	return "Error: " + err.Error()
}

// State is the lifecycle position of a single request
type State int

const (
	StateIdle State = iota
	StateSending
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSending:
		return "sending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Request is a submitted message awaiting its reply
type Request struct {
	ID      string
	Text    string
	Started time.Time
}

// Result is the outcome of one exchange with the endpoint
type Result struct {
	Request  Request
	Reply    *models.Reply
	Err      error
	Duration time.Duration
}

// State reports whether the exchange succeeded
func (r Result) State() State {
	if r.Err != nil {
		return StateFailed
	}
	return StateSucceeded
}

// Session is one chat conversation against a ChatClient
type Session struct {
	client     api.ChatClient
	transcript *transcript.Store
	formatErr  ErrorFormatter
	logger     *slog.Logger
	newID      func() string
	now        func() time.Time

	mu      sync.Mutex
	pending map[string]Request
	input   string
}

// Option configures a Session
type Option func(*Session)

// WithTranscript records exchanges in an existing store
func WithTranscript(store *transcript.Store) Option {
	return func(s *Session) {
		s.transcript = store
	}
}

// WithErrorFormatter sets how failed requests are shown
func WithErrorFormatter(f ErrorFormatter) Option {
	return func(s *Session) {
		s.formatErr = f
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithIDGenerator replaces the request id source
func WithIDGenerator(gen func() string) Option {
	return func(s *Session) {
		s.newID = gen
	}
}

// WithClock replaces the time source used for record timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New creates a Session that sends messages through client
func New(client api.ChatClient, opts ...Option) *Session {
	s := &Session{
		client:  client,
		pending: make(map[string]Request),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.transcript == nil {
		s.transcript = transcript.NewStore()
	}
	if s.formatErr == nil {
		s.formatErr = FormatError
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Submit records the user's message and then marks a request in flight.
// It returns false, with no side effects, when text is empty. Any other
// text, whitespace included, is sent unchanged.
func (s *Session) Submit(text string) (Request, bool) {
	if text == "" {
		return Request{}, false
	}

	req := Request{
		ID:      s.newID(),
		Text:    text,
		Started: s.now(),
	}

	s.transcript.Append(models.Message{
		Sender:    models.SenderUser,
		Text:      text,
		RequestID: req.ID,
		Time:      req.Started,
	})

	s.mu.Lock()
	s.pending[req.ID] = req
	inFlight := len(s.pending)
	s.mu.Unlock()

	s.logger.Debug("message submitted", "request_id", req.ID, "in_flight", inFlight)
	return req, true
}

// Exchange performs the request for req. It does not touch session state and
// may run on any goroutine.
func (s *Session) Exchange(ctx context.Context, req Request) Result {
	start := s.now()
	reply, err := s.client.Send(ctx, req.Text)
	if err == nil && reply == nil {
		err = apierrors.NewDecodeError(s.client.Endpoint(), "empty reply", "", nil)
	}

	return Result{
		Request:  req,
		Reply:    reply,
		Err:      err,
		Duration: s.now().Sub(start),
	}
}

// Settle appends the bot record for res, clears its in-flight mark and
// clears the pending input. It returns the appended record.
func (s *Session) Settle(res Result) models.Message {
	msg := models.Message{
		Sender:    models.SenderBot,
		RequestID: res.Request.ID,
		Time:      s.now(),
	}
	if res.Err != nil {
		msg.Text = s.formatErr(res.Err)
		msg.Err = res.Err
	} else {
		msg.Text = res.Reply.Text
	}

	s.transcript.Append(msg)

	s.mu.Lock()
	delete(s.pending, res.Request.ID)
	s.input = ""
	inFlight := len(s.pending)
	s.mu.Unlock()

	if res.Err != nil {
		s.logger.Warn("message failed",
			"request_id", res.Request.ID,
			"kind", apierrors.KindOf(res.Err).String(),
			"duration", res.Duration,
			"error", res.Err)
	} else {
		s.logger.Debug("message settled",
			"request_id", res.Request.ID,
			"duration", res.Duration,
			"in_flight", inFlight)
	}
	return msg
}

// SendMessage submits text, waits for the reply and records it.
// The bool is false when text was empty and nothing happened.
func (s *Session) SendMessage(ctx context.Context, text string) (models.Message, bool) {
	req, ok := s.Submit(text)
	if !ok {
		return models.Message{}, false
	}
	return s.Settle(s.Exchange(ctx, req)), true
}

// InFlight reports whether any request is awaiting its reply
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}

// Pending returns the number of requests awaiting a reply
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// SetInput stores the text being composed
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

// Input returns the text being composed
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Messages returns a copy of the transcript
func (s *Session) Messages() []models.Message {
	return s.transcript.All()
}

// Transcript returns the underlying store
func (s *Session) Transcript() *transcript.Store {
	return s.transcript
}

// Endpoint returns the URL messages are sent to
func (s *Session) Endpoint() string {
	return s.client.Endpoint()
}
