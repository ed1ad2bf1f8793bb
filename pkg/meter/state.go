// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package meter

// State is the lifecycle state of a Meter.
type State int

const (
	StateCreated State = iota
	StateStarted
	StateOK
	StateRejected
	StateFailed
)

var stateNames = map[State]string{
	StateCreated:  "CREATED",
	StateStarted:  "STARTED",
	StateOK:       "OK",
	StateRejected: "REJECTED",
	StateFailed:   "FAILED",
}

// String returns the string representation of the State.
func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transition is allowed.
func (s State) IsTerminal() bool {
	return s == StateOK || s == StateRejected || s == StateFailed
}
