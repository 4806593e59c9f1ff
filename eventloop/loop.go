// Copyright 2024 The evgo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package eventloop implements the loop the promise core runs on: a
// single-goroutine task loop with three priority bands, thread-safe
// dispatch, timers, and I/O watchers.
//
// The goroutine that calls Run owns the loop. Post, RunAfter, RunEvery, and
// AddIOEvent must be called from that goroutine (or before Run, from the
// goroutine that will call it); Dispatch and Stop may be called from
// anywhere.
package eventloop

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wenzhang-dev/evgo"
	"github.com/wenzhang-dev/evgo/internal/taskq"
)

var (
	// ErrAlreadyRunning is returned when Run is called on a loop that has
	// already been started.
	ErrAlreadyRunning = errors.New("eventloop: loop is already running")

	// ErrFdWatched is returned when AddIOEvent is called for a file
	// descriptor that already has a watcher.
	ErrFdWatched = errors.New("eventloop: fd already has a watcher")
)

// Status is the lifecycle position of a loop.
type Status int32

const (
	StatusInit Status = iota
	StatusRunning
	StatusStopping
	StatusStopped
)

// Loop is a single-goroutine event loop. It implements evgo.Executor and
// evgo.Dispatcher, and provides timer and I/O watcher capabilities on top.
type Loop struct {
	mu      sync.Mutex
	ingress taskq.Queue // foreign tasks, guarded by mu
	wake    chan struct{}

	// owned by the loop goroutine
	tasks  taskq.Queue
	timers timerHeap
	iob    ioBackend

	status atomic.Int32
}

var (
	_ evgo.Executor   = (*Loop)(nil)
	_ evgo.Dispatcher = (*Loop)(nil)
)

// New returns a loop ready to Run.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Run processes tasks and timers until Stop is called. It blocks the
// calling goroutine, which becomes the loop's owning goroutine.
func (l *Loop) Run() error {
	if !l.status.CompareAndSwap(int32(StatusInit), int32(StatusRunning)) {
		return ErrAlreadyRunning
	}
	defer l.status.Store(int32(StatusStopped))
	defer l.closeIO()

	for {
		l.mergeIngress()
		l.expireTimers(time.Now())

		for l.Status() == StatusRunning {
			cb, ok := l.tasks.Pop()
			if !ok {
				break
			}
			cb()
		}

		if l.Status() != StatusRunning {
			return nil
		}
		if !l.tasks.Empty() {
			// a task posted more work at a lower band; take another pass
			// before parking.
			continue
		}
		l.park()
	}
}

// Stop asks the loop to stop after the task it is currently running. It is
// safe to call from any goroutine. Tasks still queued are dropped.
func (l *Loop) Stop() {
	if l.status.CompareAndSwap(int32(StatusRunning), int32(StatusStopping)) ||
		l.status.CompareAndSwap(int32(StatusInit), int32(StatusStopping)) {
		l.wakeup()
	}
}

// Status returns the loop's lifecycle position. Safe from any goroutine.
func (l *Loop) Status() Status {
	return Status(l.status.Load())
}

// Post enqueues cb in the given priority band. It must be called from the
// loop goroutine.
func (l *Loop) Post(cb func(), prio evgo.Priority) {
	l.tasks.Push(int(prio), cb)
}

// Dispatch enqueues cb from any goroutine. The task runs on the loop
// goroutine, after the bands ahead of it drain.
func (l *Loop) Dispatch(cb func(), prio evgo.Priority) {
	l.mu.Lock()
	l.ingress.Push(int(prio), cb)
	l.mu.Unlock()
	l.wakeup()
}

func (l *Loop) wakeup() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) mergeIngress() {
	l.mu.Lock()
	l.ingress.Drain(&l.tasks)
	l.mu.Unlock()
}

// park blocks until a dispatch, a wakeup, or the next timer deadline.
func (l *Loop) park() {
	l.mu.Lock()
	empty := l.ingress.Empty()
	l.mu.Unlock()
	if !empty {
		return
	}

	d, ok := l.nextTimerDelay(time.Now())
	if ok && d <= 0 {
		return
	}
	if !ok {
		<-l.wake
		return
	}

	t := time.NewTimer(d)
	select {
	case <-l.wake:
		t.Stop()
	case <-t.C:
	}
}

func (l *Loop) closeIO() {
	if l.iob != nil {
		l.iob.close()
		l.iob = nil
	}
}
