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

// continuation is the at-most-one callback attached to a promise state.
// The concrete variants differ in what they do with the delivered Result;
// invocation erases the distinction.
type continuation[T any] interface {
	invoke(res Result[T])
}

// tapContinuation runs a plain side-effect callback. It terminates a chain:
// no downstream state observes what it does.
type tapContinuation[T any] func(res Result[T])

func (cb tapContinuation[T]) invoke(res Result[T]) { cb(res) }

// mapContinuation applies a synchronous transform and propagates the
// returned Result into the downstream state by variant.
type mapContinuation[T, U any] struct {
	fn   func(res Result[T]) Result[U]
	next *state[U]
}

func (c *mapContinuation[T, U]) invoke(res Result[T]) {
	c.next.settle(c.fn(res))
}

// bindContinuation applies an asynchronous transform: the callback yields an
// inner promise, and the downstream state is made to mirror it.
type bindContinuation[T, U any] struct {
	fn   func(res Result[T]) *Promise[U]
	next *state[U]
}

func (c *bindContinuation[T, U]) invoke(res Result[T]) {
	inner := c.fn(res)
	if inner == nil {
		panic(nilPromisePanicMsg)
	}
	mirror(inner, c.next)
}

// propagateContinuation forwards a Result into the downstream state as-is.
// It is the identity continuation used to mirror an inner promise.
type propagateContinuation[U any] struct {
	next *state[U]
}

func (c *propagateContinuation[U]) invoke(res Result[U]) {
	c.next.settle(res)
}
