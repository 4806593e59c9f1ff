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

package eventloop

import (
	"container/heap"
	"time"

	"github.com/wenzhang-dev/evgo"
)

// Timer is an owning handle on a scheduled callback. Cancelling it keeps
// the callback from firing again; a cancelled entry is dropped lazily from
// the heap. Timer handles are loop-affine, like the scheduling calls that
// create them.
type Timer struct {
	l      *Loop
	when   time.Time
	period time.Duration
	cb     func()

	index     int
	fired     bool
	cancelled bool
}

// Cancel deregisters the timer. A periodic timer stops repeating; a pending
// one-shot never fires.
func (t *Timer) Cancel() {
	t.cancelled = true
	t.cb = nil
}

// Fired reports whether the timer has fired at least once.
func (t *Timer) Fired() bool { return t.fired }

// Cancelled reports whether Cancel has been called.
func (t *Timer) Cancelled() bool { return t.cancelled }

// RunAfter schedules cb to run once on the loop after at least delay.
func (l *Loop) RunAfter(delay time.Duration, cb func()) *Timer {
	return l.schedule(delay, 0, cb)
}

// RunEvery schedules cb to run on the loop every interval, the first time
// after at least interval.
func (l *Loop) RunEvery(interval time.Duration, cb func()) *Timer {
	return l.schedule(interval, interval, cb)
}

func (l *Loop) schedule(delay, period time.Duration, cb func()) *Timer {
	t := &Timer{
		l:      l,
		when:   time.Now().Add(delay),
		period: period,
		cb:     cb,
	}
	heap.Push(&l.timers, t)
	return t
}

// expireTimers moves every due timer callback into the task queue. Timer
// callbacks run in the medium band, the same band as dispatched I/O
// readiness, ahead of low-band continuations.
func (l *Loop) expireTimers(now time.Time) {
	for len(l.timers) != 0 {
		t := l.timers[0]
		if t.cancelled {
			heap.Pop(&l.timers)
			continue
		}
		if t.when.After(now) {
			return
		}
		heap.Pop(&l.timers)

		t.fired = true
		cb := t.cb
		if t.period > 0 {
			t.when = now.Add(t.period)
			heap.Push(&l.timers, t)
		}
		l.tasks.Push(int(evgo.PriorityMedium), func() {
			if !t.cancelled {
				cb()
			}
		})
	}
}

// nextTimerDelay returns how long until the earliest live timer is due.
func (l *Loop) nextTimerDelay(now time.Time) (time.Duration, bool) {
	for len(l.timers) != 0 {
		t := l.timers[0]
		if t.cancelled {
			heap.Pop(&l.timers)
			continue
		}
		return t.when.Sub(now), true
	}
	return 0, false
}

type timerHeap []*Timer

func (h timerHeap) Len() int           { return len(h) }
func (h timerHeap) Less(i, j int) bool { return h[i].when.Before(h[j].when) }

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
