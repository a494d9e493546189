package dashboard

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newCron(t *testing.T) *CronScheduler {
	t.Helper()
	s := NewCronScheduler(zerolog.Nop())
	t.Cleanup(s.Stop)
	return s
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, within time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(within)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestCronAfterFiresOnce(t *testing.T) {
	s := newCron(t)
	var runs atomic.Int32
	s.After(100*time.Millisecond, func() { runs.Add(1) })

	if !waitFor(t, 2*time.Second, func() bool { return runs.Load() > 0 }) {
		t.Fatal("one-shot job never ran")
	}
	time.Sleep(300 * time.Millisecond)
	if n := runs.Load(); n != 1 {
		t.Errorf("runs = %d, want 1", n)
	}
}

func TestCronAfterZeroDelayFires(t *testing.T) {
	s := newCron(t)
	var runs atomic.Int32
	for i := 0; i < 20; i++ {
		s.After(0, func() { runs.Add(1) })
	}
	if !waitFor(t, 2*time.Second, func() bool { return runs.Load() == 20 }) {
		t.Errorf("runs = %d, want 20", runs.Load())
	}
	time.Sleep(200 * time.Millisecond)
	if n := runs.Load(); n != 20 {
		t.Errorf("runs = %d after settling, want 20", n)
	}
}

func TestCronAfterStoppedBeforeFiring(t *testing.T) {
	s := newCron(t)
	var runs atomic.Int32
	task := s.After(300*time.Millisecond, func() { runs.Add(1) })
	task.Stop()
	task.Stop()

	time.Sleep(600 * time.Millisecond)
	if n := runs.Load(); n != 0 {
		t.Errorf("stopped job ran %d times", n)
	}
}

func TestCronEveryRepeatsUntilStopped(t *testing.T) {
	s := newCron(t)
	var runs atomic.Int32
	task := s.Every(time.Second, func() { runs.Add(1) })

	if !waitFor(t, 2500*time.Millisecond, func() bool { return runs.Load() > 0 }) {
		t.Fatal("repeating job never ran")
	}
	task.Stop()
	after := runs.Load()
	time.Sleep(1200 * time.Millisecond)
	if n := runs.Load(); n != after {
		t.Errorf("job ran %d more times after Stop", n-after)
	}
}
