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

// Status is the lifecycle position of a promise state.
//
// Transitions are monotonic along exactly one of two paths:
//
//	Init -> PreResolved -> Resolved
//	Init -> PreRejected -> Rejected
//
// Any of Init, PreResolved, and PreRejected may instead transition to
// Cancelled. The Pre* statuses mean the state has settled but the result is
// still buffered, waiting for a continuation to be attached.
type Status int

const (
	StatusInit Status = iota
	StatusPreResolved
	StatusResolved
	StatusPreRejected
	StatusRejected
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusInit:
		return "init"
	case StatusPreResolved:
		return "pre-resolved"
	case StatusResolved:
		return "resolved"
	case StatusPreRejected:
		return "pre-rejected"
	case StatusRejected:
		return "rejected"
	case StatusCancelled:
		return "cancelled"
	default:
		return "<unknown>"
	}
}

// buffered reports whether the state holds an undelivered result.
func (s Status) buffered() bool {
	return s == StatusPreResolved || s == StatusPreRejected
}

// cancellable reports whether Cancel is still a valid transition.
func (s Status) cancellable() bool {
	return s == StatusInit || s.buffered()
}
