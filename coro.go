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

package evgo

import "runtime"

// The coroutine adapter lets a function that returns a promise be written
// in direct style: the body awaits other promises and returns a Result that
// settles the outer promise.
//
// Go has no stackless coroutines, so the frame is a goroutine coupled to
// the loop by a strict ping-pong handshake: exactly one of the loop and the
// body runs at any moment, which preserves the loop-local access rules for
// every state the body touches. Control changes hands only at Async entry,
// at each Await, and at body completion.

// Coro is the in-body handle of a running coroutine. It is valid only
// inside the body function it was passed to.
type Coro struct {
	exec Executor
	fr   *frame
}

// Executor returns the executor the coroutine resumes on.
func (co *Coro) Executor() Executor { return co.exec }

// frame is the suspension machinery behind a coroutine. The resume and
// yield channels carry the control token between the loop side and the body
// goroutine; cancelled is closed when the frame is destroyed.
//
// The flags are written only by the side currently holding the token, so
// the channel handshake orders every access.
type frame struct {
	resume    chan struct{}
	yield     chan struct{}
	cancelled chan struct{}

	suspended bool
	destroyed bool
	done      bool
}

func newFrame() *frame {
	return &frame{
		resume:    make(chan struct{}),
		yield:     make(chan struct{}),
		cancelled: make(chan struct{}),
	}
}

// destroy tears the frame down, at most once. A suspended body is woken
// into runtime.Goexit, and destroy waits for its deferred cleanups to
// finish, so resources held across the suspension point are released before
// destroy returns. A body currently holding the token self-destructs at its
// next suspension point instead.
func (fr *frame) destroy() {
	if fr.destroyed || fr.done {
		return
	}
	fr.destroyed = true
	close(fr.cancelled)
	if fr.suspended {
		<-fr.yield
	}
}

// Async runs fn as a coroutine and returns its promise, bound to exec. The
// body runs eagerly on entry: Async does not return until fn completes or
// suspends for the first time.
//
// The Result fn returns settles the promise by variant: a value or empty
// Result resolves, an error Result rejects. Cancelling the returned promise
// destroys the frame; deferred statements in fn run, but in-flight awaited
// promises are not cancelled by the adapter.
//
// A nil exec makes every resume run inline on whichever goroutine settles
// the awaited promise; use that only when all activity stays on one
// goroutine.
func Async[T any](exec Executor, fn func(co *Coro) Result[T]) *Promise[T] {
	if fn == nil {
		panic(nilCallbackPanicMsg)
	}

	p := New[T](exec)
	fr := newFrame()
	p.stat.attachFrame(fr)

	co := &Coro{exec: exec, fr: fr}

	// the body holds the state strongly, like a frame owning its return
	// object: the outer promise stays settleable even if the caller drops
	// every handle before the coroutine completes.
	st := p.stat

	go func() {
		// the final transfer: pairs with Async itself, with the resume that
		// ran last, or with destroy waiting out a Goexit unwind.
		defer func() {
			fr.done = true
			fr.yield <- struct{}{}
		}()
		st.settle(fn(co))
	}()
	<-fr.yield

	return p
}

// Await suspends the coroutine until p settles and returns its Result.
// Errors are values: a rejection comes back as the Result's error, nothing
// is thrown.
//
// If p already buffers a settled result, Await fetches it inline and
// returns without suspending. A promise can deliver to one continuation
// only, so a given promise may be chained or awaited once; awaiting a
// promise that has already delivered never resumes.
func Await[U any](co *Coro, p *Promise[U]) Result[U] {
	fr := co.fr
	if fr.destroyed {
		runtime.Goexit()
	}

	if p.HasBufferedResult() {
		// settled but undelivered: a transient nil-executor continuation
		// delivers inline, before the body continues.
		var res Result[U]
		p.Then(func(r Result[U]) { res = r }, nil)
		return res
	}

	var res Result[U]
	p.Then(func(r Result[U]) {
		if fr.destroyed || fr.done {
			return
		}
		res = r
		fr.resume <- struct{}{}
		<-fr.yield
	}, co.exec)

	fr.suspended = true
	fr.yield <- struct{}{}

	select {
	case <-fr.resume:
		fr.suspended = false
		return res
	case <-fr.cancelled:
		runtime.Goexit()
	}
	panic("evgo: internal: unreachable")
}
