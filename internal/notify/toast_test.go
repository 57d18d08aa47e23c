package notify

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	mu     sync.Mutex
	shown  []string
	hidden int
}

func (s *recordingSink) Show(m string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown, m)
}

func (s *recordingSink) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden++
}

func (s *recordingSink) hides() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hidden
}

func TestToastDismissesAfterDuration(t *testing.T) {
	sink := &recordingSink{}
	toaster := NewToaster(sink, 20*time.Millisecond)

	toaster.Notify("Message copied")
	assert.Equal(t, "Message copied", toaster.Current())

	assert.Eventually(t, func() bool { return sink.hides() == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, toaster.Current())
}

func TestNewToastSupersedesPendingDismissal(t *testing.T) {
	sink := &recordingSink{}
	toaster := NewToaster(sink, time.Second)

	toaster.Show("first", 30*time.Millisecond)
	toaster.Show("second", 300*time.Millisecond)

	// the first timer would have fired by now
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, "second", toaster.Current())
	assert.Zero(t, sink.hides())

	assert.Eventually(t, func() bool { return sink.hides() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"first", "second"}, sink.shown)
}

func TestDefaultDuration(t *testing.T) {
	toaster := NewToaster(&recordingSink{}, 0)
	assert.Equal(t, DefaultDuration, toaster.defaultDuration)
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	WriterSink{W: &buf}.Show("Opening Signal…")
	assert.Equal(t, "» Opening Signal…\n", buf.String())
}
