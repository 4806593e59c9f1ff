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

// testExecutor queues posted tasks in priority bands and runs them on
// demand, standing in for an event loop in these tests. Everything stays on
// the test goroutine, so settlement and delivery order is deterministic.
type testExecutor struct {
	bands [3][]func()
}

func (e *testExecutor) Post(cb func(), prio Priority) {
	e.bands[prio] = append(e.bands[prio], cb)
}

// runAll drains the bands, highest priority first, until no task remains,
// and returns how many tasks ran.
func (e *testExecutor) runAll() (n int) {
	for {
		ran := false
		for b := len(e.bands) - 1; b >= 0; b-- {
			if len(e.bands[b]) == 0 {
				continue
			}
			cb := e.bands[b][0]
			e.bands[b] = e.bands[b][1:]
			cb()
			n++
			ran = true
			break
		}
		if !ran {
			return n
		}
	}
}

func (e *testExecutor) pending() int {
	n := 0
	for b := range e.bands {
		n += len(e.bands[b])
	}
	return n
}
