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

// Package evgo provides a single-threaded promise core for event-loop
// programs: one-shot asynchronous values with chained continuations,
// aggregate combinators, and a coroutine adapter for direct-style code.
//
// A Promise is a handle on a state cell that settles exactly once, by being
// resolved, rejected, or cancelled. Continuations attached with Then, Map,
// or Bind receive the settled Result and run on the executor chosen at
// attach time; a nil executor means the continuation runs inline on the
// goroutine that settles the promise.
//
// Errors are values. A rejected promise delivers its error through the
// Result passed to the continuation; nothing is thrown, and a rejection is
// not skipped past any continuation. Cancellation is silent: a cancelled
// state never invokes its callback, and cancelling an upstream promise
// cancels the whole downstream tail.
//
// All state mutation, continuation invocation, and chain traversal must
// happen on the goroutine that owns the loop behind the promise's executor.
// The only thread-safe entry point is a Dispatcher: a foreign goroutine
// enqueues a closure which, once running on the loop, may resolve, reject,
// cancel, or attach freely. Resolver values are the sanctioned cross-thread
// sentinel; they hold the state weakly and may be carried anywhere, as long
// as their methods are invoked on the owning loop.
//
// The event loop itself is not part of this package; see the eventloop
// package for an implementation of the Executor and Dispatcher capabilities,
// timers, and I/O watchers.
package evgo
