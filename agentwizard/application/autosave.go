package application

import (
	"context"
	"sync"
	"time"

	"github.com/AzielCF/az-console/pkg/workerpool"
	"github.com/sirupsen/logrus"
)

// Dispatcher runs keyed jobs. *workerpool.Pool satisfies it.
type Dispatcher interface {
	TryDispatch(job workerpool.Job) bool
}

type autosaveInflight struct {
	cancel context.CancelFunc
	done   chan struct{}
	token  uint64
}

// autosaver debounces draft saves for one session. Every Schedule resets the
// timer; the flush callback reads whatever state exists when it runs.
type autosaver struct {
	mu         sync.Mutex
	key        string
	delay      time.Duration
	timer      *time.Timer
	gen        uint64
	inflight   autosaveInflight
	seq        uint64
	stopped    bool
	dispatcher Dispatcher
	flushFn    func(ctx context.Context)
}

func newAutosaver(key string, delay time.Duration, dispatcher Dispatcher, flushFn func(ctx context.Context)) *autosaver {
	return &autosaver{
		key:        key,
		delay:      delay,
		dispatcher: dispatcher,
		flushFn:    flushFn,
	}
}

func (a *autosaver) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.timer = time.AfterFunc(a.delay, func() {
		a.fire(gen)
	})
}

// Pending reports whether a debounce timer is armed.
func (a *autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

// Supersede drops the pending timer and cancels the context of a save that
// is already running. The returned channel closes once that save returns;
// it is nil when nothing was running.
func (a *autosaver) Supersede() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelTimerLocked()
	done := a.inflight.done
	if a.inflight.cancel != nil {
		a.inflight.cancel()
		a.inflight = autosaveInflight{}
	}
	return done
}

// Stop cancels the pending timer and refuses further schedules.
func (a *autosaver) Stop() {
	a.mu.Lock()
	a.stopped = true
	a.cancelTimerLocked()
	a.mu.Unlock()
}

func (a *autosaver) cancelTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	// a timer that already fired but has not taken the lock yet sees a newer gen
	a.gen++
}

func (a *autosaver) fire(gen uint64) {
	a.mu.Lock()
	if a.gen != gen || a.stopped {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.mu.Unlock()

	if a.dispatcher != nil {
		ok := a.dispatcher.TryDispatch(workerpool.Job{
			Key: a.key,
			Handler: func(workerCtx context.Context) error {
				a.run(workerCtx)
				return nil
			},
		})
		if ok {
			return
		}
		logrus.Warnf("[AUTOSAVE] dispatcher rejected save for session %s, running inline", a.key)
	}
	go a.run(context.Background())
}

func (a *autosaver) run(baseCtx context.Context) {
	jobCtx, cancel := context.WithCancel(baseCtx)
	done := make(chan struct{})

	a.mu.Lock()
	if a.inflight.cancel != nil {
		a.inflight.cancel()
	}
	a.seq++
	token := a.seq
	a.inflight = autosaveInflight{cancel: cancel, done: done, token: token}
	a.mu.Unlock()

	defer func() {
		close(done)
		cancel()
		a.mu.Lock()
		if a.inflight.token == token {
			a.inflight = autosaveInflight{}
		}
		a.mu.Unlock()
	}()

	a.flushFn(jobCtx)
}
