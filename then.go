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

// Map attaches a synchronous transform to p and returns the downstream
// promise. When p settles, fn receives the Result, resolved or rejected,
// and the Result it returns settles the downstream by variant.
//
// If exec is nil, fn runs inline on the goroutine that settles p, and the
// downstream inherits p's executor; otherwise both use exec.
func Map[T, U any](p *Promise[T], fn func(res Result[T]) Result[U], exec Executor) *Promise[U] {
	if fn == nil {
		panic(nilCallbackPanicMsg)
	}
	next := New[U](p.preferExecutor(exec))
	next.stat.watch(p.stat)
	p.stat.attach(&mapContinuation[T, U]{fn: fn, next: next.stat}, exec)
	return next
}

// Bind attaches an asynchronous transform to p and returns the downstream
// promise. When p settles, fn receives the Result and yields an inner
// promise; the downstream then mirrors whatever the inner promise settles
// with. Cancelling the downstream also cancels the inner promise.
//
// Executor selection follows Map.
func Bind[T, U any](p *Promise[T], fn func(res Result[T]) *Promise[U], exec Executor) *Promise[U] {
	if fn == nil {
		panic(nilCallbackPanicMsg)
	}
	next := New[U](p.preferExecutor(exec))
	next.stat.watch(p.stat)
	p.stat.attach(&bindContinuation[T, U]{fn: fn, next: next.stat}, exec)
	return next
}

// mirror makes next adopt the settlement of inner. The identity
// continuation is attached with a nil executor, so the settlement crosses
// over inline on the goroutine that settles inner; next then delivers on
// its own executor as usual.
func mirror[U any](inner *Promise[U], next *state[U]) {
	if next.status == StatusCancelled {
		// the downstream was cancelled before the transform produced the
		// inner promise; the inner chain is unwanted too.
		inner.stat.Cancel()
		return
	}

	// relink: next now owns inner instead of the settled upstream, and a
	// cancellation of next reaches the inner chain.
	next.watch(inner.stat)
	next.cancelHook = func() { inner.stat.Cancel() }

	inner.stat.attach(&propagateContinuation[U]{next: next}, nil)
}
