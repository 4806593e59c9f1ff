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

// cancelNode is the type-erased view of a state reachable through the
// forward chain edge. It is consulted only to propagate cancellation.
type cancelNode interface {
	Cancel() bool
}

// chainNode is the type-erased view of an upstream state held by its
// downstream. The downstream owns the upstream: the prev edge is what keeps
// a chain reachable while any leaf handle exists.
type chainNode interface {
	cancelNode
	setNext(n cancelNode)
	clearNext()
}

// state is the cell behind a promise. It is born Init, settles exactly once
// by Resolve, Reject, or Cancel, and holds at most one continuation for its
// whole lifetime.
//
// After construction a state must be touched only from the goroutine that
// owns its loop.
type state[T any] struct {
	status Status
	exec   Executor

	// storage holds the settled result while the status is PreResolved or
	// PreRejected; it is moved out on delivery.
	storage Result[T]

	// cb is the at-most-one continuation; moved out on delivery, dropped
	// on cancellation.
	cb continuation[T]

	// next is the non-owning back-reference to the downstream state; prev
	// is the owning reference to the upstream one.
	next cancelNode
	prev chainNode

	// fr is set when this state is the return object of a coroutine; it is
	// destroyed at most once, and only from Cancel.
	fr *frame

	// cancelHook reaches the inner promise a Bind downstream mirrors, so
	// cancelling the downstream cancels the inner chain too.
	cancelHook func()
}

func newState[T any](exec Executor) *state[T] {
	return &state[T]{status: StatusInit, exec: exec}
}

// settle moves the state to PreResolved or PreRejected based on the Result
// variant, then runs the delivery sub-protocol. It reports false if the
// state is not Init; a state never settles twice.
func (s *state[T]) settle(res Result[T]) bool {
	if s.status != StatusInit {
		return false
	}
	if res == nil {
		res = Empty[T]()
	}
	if res.Err() != nil {
		s.status = StatusPreRejected
	} else {
		s.status = StatusPreResolved
	}
	s.storage = res
	s.tryDeliver()
	return true
}

// Cancel transitions the state to Cancelled, if it has not delivered yet.
// It destroys an attached coroutine frame, drops the pending callback and
// storage, and propagates forward through the next edge, so the whole
// downstream tail ends up Cancelled. A cancelled state never invokes its
// callback.
func (s *state[T]) Cancel() bool {
	if !s.status.cancellable() {
		return false
	}
	s.status = StatusCancelled

	if fr := s.fr; fr != nil {
		s.fr = nil
		fr.destroy()
	}

	s.cb = nil
	s.storage = nil

	if hook := s.cancelHook; hook != nil {
		s.cancelHook = nil
		hook()
	}

	if s.next != nil {
		s.next.Cancel()
	}
	return true
}

// attach installs the continuation and updates the executor used for
// delivery. If the state already buffers a result, delivery runs at once.
func (s *state[T]) attach(cb continuation[T], exec Executor) {
	if s.status == StatusCancelled {
		return
	}
	s.exec = exec
	s.cb = cb
	s.tryDeliver()
}

// tryDeliver runs the delivery sub-protocol once both a continuation and a
// buffered result are present: move both out of the state, finish the
// Pre* -> terminal transition, then apply the continuation on the executor,
// or inline when there is none.
//
// Posting rather than invoking keeps continuations on their designated loop
// and bounds recursion depth when a long chain is settled at attach time.
func (s *state[T]) tryDeliver() {
	if s.cb == nil || !s.status.buffered() {
		return
	}

	cb := s.cb
	s.cb = nil
	res := s.storage
	s.storage = nil

	if s.status == StatusPreResolved {
		s.status = StatusResolved
	} else {
		s.status = StatusRejected
	}

	if s.exec != nil {
		s.exec.Post(func() { cb.invoke(res) }, PriorityLow)
	} else {
		cb.invoke(res)
	}
}

// watch records s as the downstream of other: s holds other through prev,
// and other's next edge points back at s for cancellation.
func (s *state[T]) watch(other chainNode) {
	s.prev = other
	other.setNext(s)
}

// breakChain drops the owning prev edge, releasing the upstream tail.
func (s *state[T]) breakChain() {
	if s.prev != nil {
		s.prev.clearNext()
		s.prev = nil
	}
}

func (s *state[T]) setNext(n cancelNode) { s.next = n }
func (s *state[T]) clearNext()           { s.next = nil }

func (s *state[T]) attachFrame(fr *frame) { s.fr = fr }
