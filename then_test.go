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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapTransformsValue(t *testing.T) {
	exec := &testExecutor{}
	p := New[float64](exec)
	q := Map(p, func(r Result[float64]) Result[int] {
		return Val(int(r.Val()))
	}, exec)

	var got int
	q.Then(func(r Result[int]) { got = r.Val() }, exec)

	p.Resolver().Resolve(3.14)
	exec.runAll()

	require.Equal(t, 3, got)
	require.Equal(t, StatusResolved, q.Status())
}

func TestMapSeesRejection(t *testing.T) {
	// rejections are not skipped past continuations: the transform gets
	// the rejected Result and decides what flows downstream.
	exec := &testExecutor{}
	boom := errors.New("boom")

	p := New[int](exec)
	q := Map(p, func(r Result[int]) Result[string] {
		require.Same(t, boom, r.Err())
		return Err[string](errors.New("wrapped: " + r.Err().Error()))
	}, exec)

	var res Result[string]
	q.Then(func(r Result[string]) { res = r }, exec)

	p.Resolver().Reject(boom)
	exec.runAll()

	require.EqualError(t, res.Err(), "wrapped: boom")
}

func TestMapRecoversRejection(t *testing.T) {
	exec := &testExecutor{}
	p := New[int](exec)
	q := Map(p, func(r Result[int]) Result[int] {
		if r.Err() != nil {
			return Val(-1)
		}
		return r
	}, exec)

	var got int
	q.Then(func(r Result[int]) { got = r.Val() }, exec)

	p.Resolver().Reject(errors.New("boom"))
	exec.runAll()

	require.Equal(t, -1, got)
	require.Equal(t, StatusResolved, q.Status())
}

func TestBindFlattensInnerPromise(t *testing.T) {
	exec := &testExecutor{}
	p := New[float64](exec)
	inner := New[int](exec)

	q := Bind(p, func(r Result[float64]) *Promise[int] {
		require.Equal(t, 3.14, r.Val())
		return inner
	}, exec)

	var got int
	q.Then(func(r Result[int]) { got = r.Val() }, exec)

	p.Resolver().Resolve(3.14)
	exec.runAll()
	require.Equal(t, StatusInit, q.Status())

	inner.Resolver().Resolve(7)
	exec.runAll()

	require.Equal(t, 7, got)
	require.Equal(t, StatusResolved, q.Status())
}

func TestBindMirrorsInnerRejection(t *testing.T) {
	exec := &testExecutor{}
	boom := errors.New("boom")

	p := New[int](exec)
	inner := New[int](exec)
	q := Bind(p, func(Result[int]) *Promise[int] { return inner }, exec)

	var res Result[int]
	q.Then(func(r Result[int]) { res = r }, exec)

	p.Resolver().Resolve(1)
	exec.runAll()
	inner.Resolver().Reject(boom)
	exec.runAll()

	require.Same(t, boom, res.Err())
}

func TestBindCancelReachesInner(t *testing.T) {
	exec := &testExecutor{}
	p := New[int](exec)
	inner := New[int](exec)
	q := Bind(p, func(Result[int]) *Promise[int] { return inner }, exec)

	p.Resolver().Resolve(1)
	exec.runAll()

	// q now mirrors inner; cancelling q must cancel the inner chain too
	require.True(t, q.Resolver().Cancel())
	require.Equal(t, StatusCancelled, q.Status())
	require.Equal(t, StatusCancelled, inner.Status())
}

func TestBindCancelBeforeInnerProduced(t *testing.T) {
	exec := &testExecutor{}
	p := New[int](exec)
	inner := New[int](exec)
	q := Bind(p, func(Result[int]) *Promise[int] { return inner }, exec)

	require.True(t, q.Resolver().Cancel())

	// the upstream still settles and runs the transform; the inner promise
	// it yields is unwanted and gets cancelled on the spot.
	p.Resolver().Resolve(1)
	exec.runAll()

	require.Equal(t, StatusCancelled, inner.Status())
}

func TestDownstreamInheritsExecutor(t *testing.T) {
	exec := &testExecutor{}
	other := &testExecutor{}

	p := New[int](exec)
	q := Map(p, func(r Result[int]) Result[int] { return r }, nil)
	require.Same(t, exec, q.Executor())

	s := Map(q, func(r Result[int]) Result[int] { return r }, other)
	require.Same(t, other, s.Executor())
}

func TestMapPanicsOnNilCallback(t *testing.T) {
	p := New[int](nil)
	require.PanicsWithValue(t, nilCallbackPanicMsg, func() {
		Map[int, int](p, nil, nil)
	})
	require.PanicsWithValue(t, nilCallbackPanicMsg, func() {
		Bind[int, int](p, nil, nil)
	})
}
