package transcript

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/diogo/mcchat/internal/models"
)

func user(text string) models.Message { return models.Message{Sender: models.SenderUser, Text: text} }
func bot(text string) models.Message  { return models.Message{Sender: models.SenderBot, Text: text} }

var ignoreErr = cmpopts.IgnoreFields(models.Message{}, "Err")

func TestStore_AppendPreservesOrder(t *testing.T) {
	s := NewStore()
	want := []models.Message{user("Hi"), bot("Hello!"), user("Hi"), bot("Hello!")}

	for i, msg := range want {
		if n := s.Append(msg); n != i+1 {
			t.Errorf("Append() returned %d, want %d", n, i+1)
		}
	}

	if diff := cmp.Diff(want, s.All(), ignoreErr); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
}

func TestStore_AllReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Append(user("original"))

	got := s.All()
	got[0].Text = "changed"

	if diff := cmp.Diff([]models.Message{user("original")}, s.All(), ignoreErr); diff != "" {
		t.Errorf("store was modified through All() (-want +got):\n%s", diff)
	}
}

func TestStore_Empty(t *testing.T) {
	var s Store

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if got := s.All(); len(got) != 0 {
		t.Errorf("All() = %v, want empty", got)
	}
	if _, ok := s.Last(); ok {
		t.Error("Last() on empty store should report false")
	}
	if _, ok := s.LastFrom(models.SenderBot); ok {
		t.Error("LastFrom() on empty store should report false")
	}
}

func TestStore_LastAndLastFrom(t *testing.T) {
	s := NewStore()
	s.Append(user("one"))
	s.Append(bot("reply one"))
	s.Append(user("two"))

	last, ok := s.Last()
	if !ok || last.Text != "two" {
		t.Errorf("Last() = %+v, %v", last, ok)
	}

	lastBot, ok := s.LastFrom(models.SenderBot)
	if !ok || lastBot.Text != "reply one" {
		t.Errorf("LastFrom(bot) = %+v, %v", lastBot, ok)
	}

	failed := bot("Error: timeout")
	failed.Err = errors.New("timeout")
	s.Append(failed)

	lastBot, _ = s.LastFrom(models.SenderBot)
	if !lastBot.Failed() {
		t.Error("LastFrom(bot) should return the error record")
	}
}

func TestStore_NoDedup(t *testing.T) {
	s := NewStore()
	s.Append(user("same"))
	s.Append(user("same"))

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestStore_ConcurrentAppend(t *testing.T) {
	s := NewStore()
	const writers, perWriter = 8, 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				s.Append(user("x"))
			}
		}()
	}
	wg.Wait()

	if s.Len() != writers*perWriter {
		t.Errorf("Len() = %d, want %d", s.Len(), writers*perWriter)
	}
}

func TestStore_Subscribe(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()

	s.Append(user("a"))
	if n := <-ch; n != 1 {
		t.Errorf("notification = %d, want 1", n)
	}

	// Slow subscriber: two appends without reading keep only the latest length
	s.Append(bot("b"))
	s.Append(user("c"))
	if n := <-ch; n != 3 {
		t.Errorf("notification = %d, want 3", n)
	}

	cancel()
	cancel()
	if _, open := <-ch; open {
		t.Error("channel should be closed after cancel")
	}

	// Appends after cancel must not panic or block
	s.Append(bot("d"))
}

func TestStore_SubscribeZeroValue(t *testing.T) {
	var s Store
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Append(user("a"))
	if n := <-ch; n != 1 {
		t.Errorf("notification = %d, want 1", n)
	}
}
