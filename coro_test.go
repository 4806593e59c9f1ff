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

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAwaitBufferedDoesNotSuspend(t *testing.T) {
	p := New[int](nil)
	p.Resolver().Resolve(123)

	steps := 0
	outer := Async(nil, func(co *Coro) Result[string] {
		steps++
		r := Await(co, p)
		steps++
		return Val(strconv.Itoa(r.Val()))
	})

	// the body never suspended: by the time Async returns, the outer
	// promise has already settled.
	require.Equal(t, 2, steps)
	require.True(t, outer.HasBufferedResult())

	var got string
	outer.Then(func(r Result[string]) { got = r.Val() }, nil)
	require.Equal(t, "123", got)
}

func TestAwaitSuspendsAndResumesOnExecutor(t *testing.T) {
	exec := &testExecutor{}
	p := New[int](exec)

	outer := Async(exec, func(co *Coro) Result[string] {
		r := Await(co, p)
		if r.Err() != nil {
			return Err[string](r.Err())
		}
		return Val(strconv.Itoa(r.Val()))
	})

	// suspended at the await; nothing settled yet
	require.Equal(t, StatusInit, outer.Status())

	var got string
	outer.Then(func(r Result[string]) { got = r.Val() }, exec)

	p.Resolver().Resolve(123)
	exec.runAll()

	require.Equal(t, "123", got)
	require.Equal(t, StatusResolved, outer.Status())
}

func TestAwaitDeliversRejectionAsValue(t *testing.T) {
	exec := &testExecutor{}
	boom := errors.New("boom")
	p := New[int](exec)

	outer := Async(exec, func(co *Coro) Result[int] {
		r := Await(co, p)
		// errors are values: the await expression yields the Result
		if r.Err() != nil {
			return Val(-1)
		}
		return r
	})

	var got int
	outer.Then(func(r Result[int]) { got = r.Val() }, exec)

	p.Resolver().Reject(boom)
	exec.runAll()

	require.Equal(t, -1, got)
}

func TestCoroutineReturnErrorRejects(t *testing.T) {
	boom := errors.New("boom")
	outer := Async(nil, func(co *Coro) Result[int] {
		return Err[int](boom)
	})

	require.Equal(t, StatusPreRejected, outer.Status())

	var res Result[int]
	outer.Then(func(r Result[int]) { res = r }, nil)
	require.Same(t, boom, res.Err())
}

func TestCoroutineEmptyResultResolves(t *testing.T) {
	outer := Async(nil, func(co *Coro) Result[struct{}] {
		return Empty[struct{}]()
	})
	require.Equal(t, StatusPreResolved, outer.Status())
}

func TestAwaitSequence(t *testing.T) {
	exec := &testExecutor{}
	p1 := New[int](exec)
	p2 := New[int](exec)

	outer := Async(exec, func(co *Coro) Result[int] {
		a := Await(co, p1)
		b := Await(co, p2)
		return Val(a.Val() + b.Val())
	})

	var got int
	outer.Then(func(r Result[int]) { got = r.Val() }, exec)

	p1.Resolver().Resolve(40)
	exec.runAll()
	require.Equal(t, StatusInit, outer.Status())

	p2.Resolver().Resolve(2)
	exec.runAll()

	require.Equal(t, 42, got)
}

func TestCancelDestroysSuspendedFrame(t *testing.T) {
	exec := &testExecutor{}
	p := New[int](exec)

	cleanedUp := false
	resumed := false
	outer := Async(exec, func(co *Coro) Result[int] {
		defer func() { cleanedUp = true }()
		Await(co, p)
		resumed = true
		return Val(1)
	})

	require.True(t, outer.Resolver().Cancel())
	require.Equal(t, StatusCancelled, outer.Status())

	// frame destruction is synchronous: deferred cleanups have run by the
	// time Cancel returns, and the body never resumes past the await.
	require.True(t, cleanedUp)
	require.False(t, resumed)

	// the awaited promise was not auto-cancelled; settling it later is
	// fine and resumes nothing.
	require.True(t, p.Resolver().Resolve(9))
	exec.runAll()
	require.False(t, resumed)
}

func TestCancelledFrameSelfDestructsAtNextAwait(t *testing.T) {
	exec := &testExecutor{}
	p1 := New[int](exec)
	p2 := New[int](exec)

	var res Resolver[int]
	pastSecondAwait := false
	cleanedUp := false

	outer := Async(exec, func(co *Coro) Result[int] {
		defer func() { cleanedUp = true }()
		Await(co, p1)
		// the body cancels its own promise while holding control; the
		// frame must unwind at the next suspension point.
		res.Cancel()
		Await(co, p2)
		pastSecondAwait = true
		return Val(1)
	})
	res = outer.Resolver()

	p1.Resolver().Resolve(1)
	exec.runAll()

	require.Equal(t, StatusCancelled, outer.Status())
	require.True(t, cleanedUp)
	require.False(t, pastSecondAwait)
}

func TestAsyncPanicsOnNilBody(t *testing.T) {
	require.PanicsWithValue(t, nilCallbackPanicMsg, func() {
		Async[int](nil, nil)
	})
}
