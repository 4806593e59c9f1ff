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

import "fmt"

// Result is a container for the eventual value or error of a promise.
// A Result is in exactly one of three variants: a value, an error, or
// empty. An empty Result is a successful result that carries no value;
// it is what a promise of no value resolves with.
type Result[T any] interface {
	Val() T
	Err() error
	State() State
}

// State is the variant of a Result: a value or an empty Result is
// Fulfilled, an error Result is Rejected.
type State int

const (
	// the order here matters
	unknown State = iota
	Fulfilled
	Rejected
)

func (s State) String() string {
	switch s {
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "<unknown>"
	}
}

// Empty returns a successful Result that carries no value.
func Empty[T any]() Result[T] {
	return emptyResult[T]{}
}

// Val returns a successful Result carrying val.
func Val[T any](val T) Result[T] {
	return valResult[T]{val: val}
}

// Err returns a rejected Result carrying err.
// It panics if err is nil, as a rejection must carry an error value.
func Err[T any](err error) Result[T] {
	if err == nil {
		panic(nilErrorPanicMsg)
	}
	return errResult[T]{err: err}
}

type emptyResult[T any] struct{}
type valResult[T any] struct{ val T }
type errResult[T any] struct{ err error }

func (r emptyResult[T]) Val() (v T) { return v }
func (r valResult[T]) Val() (v T)   { return r.val }
func (r errResult[T]) Val() (v T)   { return v }

func (r emptyResult[T]) Err() error { return nil }
func (r valResult[T]) Err() error   { return nil }
func (r errResult[T]) Err() error   { return r.err }

func (r emptyResult[T]) State() State { return Fulfilled }
func (r valResult[T]) State() State   { return Fulfilled }
func (r errResult[T]) State() State   { return Rejected }

func (r emptyResult[T]) String() string {
	return "fulfilled: <empty>"
}
func (r valResult[T]) String() string {
	return fmt.Sprintf("fulfilled: %v", r.val)
}
func (r errResult[T]) String() string {
	return fmt.Sprintf("rejected: %s", r.err.Error())
}
