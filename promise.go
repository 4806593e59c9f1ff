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

// Promise is the public handle on a one-shot asynchronous value. Handles
// share the backing state: copying the pointer clones the handle without
// duplicating the state.
//
// A promise carries at most one continuation for its lifetime; attach it
// with Then, or through Map or Bind, or consume the promise with Await
// inside a coroutine.
type Promise[T any] struct {
	stat *state[T]
}

// New returns a pending promise bound to exec. A nil exec means
// continuations are invoked inline on the goroutine that settles the
// promise.
func New[T any](exec Executor) *Promise[T] {
	return &Promise[T]{stat: newState[T](exec)}
}

// Wrap returns a promise already settled with res, dispatched by variant:
// a value or empty Result resolves, an error Result rejects. A nil res
// resolves empty.
func Wrap[T any](exec Executor, res Result[T]) *Promise[T] {
	p := New[T](exec)
	p.stat.settle(res)
	return p
}

// Then attaches a side-effect continuation and terminates the chain at this
// step: no downstream promise is created, and failures inside cb are not
// recovered. The continuation receives the Result whether the promise
// resolves or rejects.
//
// If exec is nil the continuation runs inline on the goroutine that settles
// the promise; otherwise it is posted to exec.
func (p *Promise[T]) Then(cb func(res Result[T]), exec Executor) {
	if cb == nil {
		panic(nilCallbackPanicMsg)
	}
	p.stat.attach(tapContinuation[T](cb), exec)
}

// Resolver returns a weak settle handle for this promise. Resolver values
// are cheap to copy and safe to embed in I/O callbacks: they do not extend
// the promise's lifetime, and their calls degrade to no-ops once every
// promise handle is gone.
func (p *Promise[T]) Resolver() Resolver[T] {
	return newResolver(p.stat)
}

// Status returns the current lifecycle position of the promise.
func (p *Promise[T]) Status() Status {
	return p.stat.status
}

// HasBufferedResult reports whether the promise has settled but not yet
// delivered its result to a continuation. The coroutine adapter relies on
// this to skip suspension when awaiting an already-settled promise.
func (p *Promise[T]) HasBufferedResult() bool {
	return p.stat.status.buffered()
}

// HasHandler reports whether a continuation is currently attached.
func (p *Promise[T]) HasHandler() bool {
	return p.stat.cb != nil
}

// Executor returns the executor continuations will be delivered on, which
// may be nil.
func (p *Promise[T]) Executor() Executor {
	return p.stat.exec
}

// BreakChain drops this promise's owning reference to its upstream,
// releasing the upstream tail without waiting for this handle to become
// unreachable.
func (p *Promise[T]) BreakChain() {
	p.stat.breakChain()
}

// preferExecutor picks the executor a downstream promise is born with.
func (p *Promise[T]) preferExecutor(prefer Executor) Executor {
	if prefer != nil {
		return prefer
	}
	return p.stat.exec
}
