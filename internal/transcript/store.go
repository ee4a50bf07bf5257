// Package transcript holds the in-memory record of one chat session.
package transcript

import (
	"sync"

	"github.com/diogo/mcchat/internal/models"
)

// Store is an ordered, append-only sequence of messages.
// It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	messages []models.Message

	subMu  sync.Mutex
	subs   map[int]chan int
	nextID int
}

// NewStore creates an empty transcript
func NewStore() *Store {
	return &Store{
		subs: make(map[int]chan int),
	}
}

// Append adds msg to the end of the transcript and returns the new length
func (s *Store) Append(msg models.Message) int {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	n := len(s.messages)
	s.mu.Unlock()

	s.notify(n)
	return n
}

// All returns a copy of every message, oldest first
func (s *Store) All() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the most recent message
func (s *Store) Last() (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.messages) == 0 {
		return models.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// LastFrom returns the most recent message sent by sender
func (s *Store) LastFrom(sender models.Sender) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Sender == sender {
			return s.messages[i], true
		}
	}
	return models.Message{}, false
}

// Subscribe returns a channel that receives the transcript length after each
// append, and a function that cancels the subscription. Notifications are
// dropped for subscribers that are not keeping up.
func (s *Store) Subscribe() (<-chan int, func()) {
	ch := make(chan int, 1)

	s.subMu.Lock()
	if s.subs == nil {
		s.subs = make(map[int]chan int)
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) notify(n int) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- n:
		default:
			// Replace a stale value so the reader sees the latest length
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- n:
			default:
			}
		}
	}
}
