package dashboard

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Task is a scheduled job that can be cancelled.
type Task interface {
	Stop()
}

// Scheduler runs repeating and one-shot jobs.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
	After(delay time.Duration, fn func()) Task
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// CronScheduler runs jobs on a robfig/cron runner. Jobs are not serialized:
// a slow refresh may overlap the next tick.
type CronScheduler struct {
	cron *cron.Cron
}

// NewCronScheduler creates and starts a scheduler. Panicking jobs are
// recovered and logged.
func NewCronScheduler(logger zerolog.Logger) *CronScheduler {
	cl := cronLogger{logger: logger.With().Str("component", "scheduler").Logger()}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl)))
	c.Start()
	return &CronScheduler{cron: c}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// cronTask guards id so a job that stops itself cannot observe it before
// Schedule has returned.
type cronTask struct {
	mu      sync.Mutex
	cron    *cron.Cron
	id      cron.EntryID
	removed bool
}

func (t *cronTask) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.removed {
		return
	}
	t.removed = true
	t.cron.Remove(t.id)
}

func (s *CronScheduler) schedule(sched cron.Schedule, job func(*cronTask)) Task {
	task := &cronTask{cron: s.cron}
	task.mu.Lock()
	defer task.mu.Unlock()
	task.id = s.cron.Schedule(sched, cron.FuncJob(func() { job(task) }))
	return task
}

// Every implements Scheduler. The first run happens one interval from now.
// cron rounds intervals below a second up to one second.
func (s *CronScheduler) Every(interval time.Duration, fn func()) Task {
	return s.schedule(cron.Every(interval), func(*cronTask) { fn() })
}

// onceSchedule is due once, at `at` or as soon as the runner looks at it
// if that has already passed. cron asks for Next once when the entry is
// added and once after each run.
type onceSchedule struct {
	at     time.Time
	handed atomic.Bool
}

func (o *onceSchedule) Next(t time.Time) time.Time {
	if o.handed.Swap(true) {
		return time.Time{}
	}
	if o.at.After(t) {
		return o.at
	}
	return t
}

// After implements Scheduler.
func (s *CronScheduler) After(delay time.Duration, fn func()) Task {
	return s.schedule(&onceSchedule{at: time.Now().Add(delay)}, func(t *cronTask) {
		t.Stop()
		fn()
	})
}

// Stop halts the runner and waits for running jobs to finish.
func (s *CronScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// ManualScheduler records jobs and runs them only when told to.
type ManualScheduler struct {
	mu      sync.Mutex
	repeats []*manualTask
	delayed []*manualTask
}

type manualTask struct {
	mu       sync.Mutex
	interval time.Duration
	fn       func()
	stopped  bool
}

func (t *manualTask) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *manualTask) active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}

// NewManualScheduler creates an idle scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every implements Scheduler.
func (s *ManualScheduler) Every(interval time.Duration, fn func()) Task {
	t := &manualTask{interval: interval, fn: fn}
	s.mu.Lock()
	s.repeats = append(s.repeats, t)
	s.mu.Unlock()
	return t
}

// After implements Scheduler.
func (s *ManualScheduler) After(delay time.Duration, fn func()) Task {
	t := &manualTask{interval: delay, fn: fn}
	s.mu.Lock()
	s.delayed = append(s.delayed, t)
	s.mu.Unlock()
	return t
}

// Tick runs every active repeating job once.
func (s *ManualScheduler) Tick() {
	s.mu.Lock()
	jobs := append([]*manualTask(nil), s.repeats...)
	s.mu.Unlock()
	for _, t := range jobs {
		if t.active() {
			t.fn()
		}
	}
}

// RunDelayed runs and consumes every pending one-shot job.
func (s *ManualScheduler) RunDelayed() {
	s.mu.Lock()
	jobs := s.delayed
	s.delayed = nil
	s.mu.Unlock()
	for _, t := range jobs {
		if t.active() {
			t.Stop()
			t.fn()
		}
	}
}

// Intervals returns the intervals of active repeating jobs.
func (s *ManualScheduler) Intervals() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Duration
	for _, t := range s.repeats {
		if t.active() {
			out = append(out, t.interval)
		}
	}
	return out
}

// PendingDelays returns the delays of one-shot jobs not yet run or stopped.
func (s *ManualScheduler) PendingDelays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Duration
	for _, t := range s.delayed {
		if t.active() {
			out = append(out, t.interval)
		}
	}
	return out
}
