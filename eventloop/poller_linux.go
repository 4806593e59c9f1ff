//go:build linux

package eventloop

import (
	"sync"

	"golang.org/x/sys/unix"

	"github.com/wenzhang-dev/evgo"
)

// epollBackend watches descriptors with a dedicated poller goroutine and an
// epoll instance. Watchers are registered one-shot and re-armed on the loop
// after their callback runs, so readiness can't storm the dispatch queue
// while the loop is busy.
type epollBackend struct {
	l    *Loop
	epfd int

	mu       sync.Mutex
	watchers map[int]*IOEvent
}

func newIOBackend(l *Loop) (ioBackend, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}

	b := &epollBackend{
		l:        l,
		epfd:     epfd,
		watchers: make(map[int]*IOEvent),
	}
	go b.wait()
	return b, nil
}

func epollBits(kind IOEventKind) uint32 {
	if kind == IOWrite {
		return unix.EPOLLOUT | unix.EPOLLONESHOT
	}
	return unix.EPOLLIN | unix.EPOLLONESHOT
}

func (b *epollBackend) add(ev *IOEvent) error {
	b.mu.Lock()
	if _, dup := b.watchers[ev.fd]; dup {
		b.mu.Unlock()
		return ErrFdWatched
	}
	b.watchers[ev.fd] = ev
	b.mu.Unlock()

	err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_ADD, ev.fd, &unix.EpollEvent{
		Events: epollBits(ev.kind),
		Fd:     int32(ev.fd),
	})
	if err != nil {
		b.mu.Lock()
		delete(b.watchers, ev.fd)
		b.mu.Unlock()
	}
	return err
}

func (b *epollBackend) remove(ev *IOEvent) {
	b.mu.Lock()
	delete(b.watchers, ev.fd)
	b.mu.Unlock()

	// the descriptor may already be closed; deregistration is best-effort.
	_ = unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, ev.fd, nil)
}

func (b *epollBackend) rearm(ev *IOEvent) {
	_ = unix.EpollCtl(b.epfd, unix.EPOLL_CTL_MOD, ev.fd, &unix.EpollEvent{
		Events: epollBits(ev.kind),
		Fd:     int32(ev.fd),
	})
}

func (b *epollBackend) wait() {
	events := make([]unix.EpollEvent, 64)
	for {
		n, err := unix.EpollWait(b.epfd, events, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			// the epoll fd was closed; the loop is shutting down.
			return
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)

			b.mu.Lock()
			ev := b.watchers[fd]
			b.mu.Unlock()
			if ev == nil {
				continue
			}

			b.l.Dispatch(func() {
				if ev.cancelled {
					return
				}
				ev.fired = true
				ev.cb()
				if !ev.cancelled {
					b.rearm(ev)
				}
			}, evgo.PriorityMedium)
		}
	}
}

func (b *epollBackend) close() {
	_ = unix.Close(b.epfd)
}
