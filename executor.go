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

// Priority selects the band a task is queued in. An executor drains High
// before Medium before Low on every tick, and keeps FIFO order within a band.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "<unknown>"
	}
}

// Executor is the capability to enqueue a task to the loop goroutine that
// owns it. Post must be called only from that goroutine; it is the same-
// thread enqueue, and the promise core uses it to deliver continuations.
type Executor interface {
	Post(cb func(), prio Priority)
}

// Dispatcher is the thread-safe counterpart of Executor. Dispatch may be
// called from any goroutine; the closure runs later on the owning loop.
// It is the core's sole cross-thread entry point: a producer on a foreign
// goroutine dispatches a closure that settles promises once it runs.
type Dispatcher interface {
	Dispatch(cb func(), prio Priority)
}
