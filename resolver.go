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

import "weak"

// Resolver is a weak grip on a promise state, used by a producer to settle
// the promise without extending its lifetime. Once every promise handle has
// dropped the state, the weak reference no longer upgrades and all resolver
// calls report false.
//
// Resolver values may be copied and carried across goroutines freely, but
// their methods must be invoked on the loop that owns the state; a foreign
// goroutine dispatches a closure to the loop first.
type Resolver[T any] struct {
	stat weak.Pointer[state[T]]
}

func newResolver[T any](s *state[T]) Resolver[T] {
	return Resolver[T]{stat: weak.Make(s)}
}

// Resolve settles the promise with val. It reports true iff the state is
// still alive and was Init at the moment of the call.
func (r Resolver[T]) Resolve(val T) bool {
	if s := r.stat.Value(); s != nil {
		return s.settle(Val(val))
	}
	return false
}

// Reject settles the promise with err. It reports true iff the state is
// still alive and was Init at the moment of the call.
func (r Resolver[T]) Reject(err error) bool {
	if s := r.stat.Value(); s != nil {
		return s.settle(Err[T](err))
	}
	return false
}

// Settle settles the promise with res, dispatching on its variant: a value
// or empty Result resolves, an error Result rejects. A nil res resolves
// empty.
func (r Resolver[T]) Settle(res Result[T]) bool {
	if s := r.stat.Value(); s != nil {
		return s.settle(res)
	}
	return false
}

// Cancel cancels the promise, if the state is alive and has not delivered.
func (r Resolver[T]) Cancel() bool {
	if s := r.stat.Value(); s != nil {
		return s.Cancel()
	}
	return false
}

// Status returns a snapshot of the state's status, and false if the state
// is no longer alive.
func (r Resolver[T]) Status() (Status, bool) {
	if s := r.stat.Value(); s != nil {
		return s.status, true
	}
	return StatusInit, false
}
