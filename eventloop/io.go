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

// IOEventKind selects the readiness condition a watcher waits for.
type IOEventKind int

const (
	IORead IOEventKind = iota
	IOWrite
)

// IOEvent is an owning handle on a readiness watcher. The callback runs on
// the loop goroutine each time the descriptor becomes ready, until Cancel.
type IOEvent struct {
	l    *Loop
	fd   int
	kind IOEventKind
	cb   func()

	fired     bool
	cancelled bool
}

// Fired reports whether the watcher has fired at least once.
func (ev *IOEvent) Fired() bool { return ev.fired }

// Cancelled reports whether Cancel has been called.
func (ev *IOEvent) Cancelled() bool { return ev.cancelled }

// Cancel deregisters the watcher. Its callback never runs again.
func (ev *IOEvent) Cancel() {
	if ev.cancelled {
		return
	}
	ev.cancelled = true
	if ev.l.iob != nil {
		ev.l.iob.remove(ev)
	}
}

// AddIOEvent registers cb to run on the loop whenever fd is ready for the
// given kind of I/O. One watcher per descriptor; the descriptor should be
// in non-blocking mode. On platforms without a poller backend it returns
// evgo.ErrIOUnsupported.
func (l *Loop) AddIOEvent(fd int, kind IOEventKind, cb func()) (*IOEvent, error) {
	if l.iob == nil {
		b, err := newIOBackend(l)
		if err != nil {
			return nil, err
		}
		l.iob = b
	}

	ev := &IOEvent{l: l, fd: fd, kind: kind, cb: cb}
	if err := l.iob.add(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// ioBackend is the platform poller behind AddIOEvent. Readiness is
// delivered back into the loop through Dispatch, the loop's cross-thread
// entry.
type ioBackend interface {
	add(ev *IOEvent) error
	remove(ev *IOEvent)
	close()
}
