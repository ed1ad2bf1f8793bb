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

package measurement

// SystemStatus is the runtime telemetry captured when an operation stops.
// Memory figures are bytes, GCTime is nanoseconds. Fields a telemetry source
// could not read stay zero.
type SystemStatus struct {
	// HeapUsed is the memory held by live and not yet swept heap objects.
	HeapUsed int64 `json:"heapUsed,omitempty" yaml:"heapUsed,omitempty"`
	// HeapCommitted is the heap memory obtained from the OS.
	HeapCommitted int64 `json:"heapCommitted,omitempty" yaml:"heapCommitted,omitempty"`
	// HeapMax is the soft memory limit, zero when unlimited.
	HeapMax int64 `json:"heapMax,omitempty" yaml:"heapMax,omitempty"`
	// NonHeapUsed is the memory used by goroutine stacks.
	NonHeapUsed int64 `json:"nonHeapUsed,omitempty" yaml:"nonHeapUsed,omitempty"`
	// NonHeapCommitted is runtime memory outside the heap obtained from the OS.
	NonHeapCommitted int64 `json:"nonHeapCommitted,omitempty" yaml:"nonHeapCommitted,omitempty"`

	Goroutines int64 `json:"goroutines,omitempty" yaml:"goroutines,omitempty"`
	Threads    int64 `json:"threads,omitempty" yaml:"threads,omitempty"`

	GCCount int64 `json:"gcCount,omitempty" yaml:"gcCount,omitempty"`
	GCTime  int64 `json:"gcTime,omitempty" yaml:"gcTime,omitempty"`

	// RuntimeMemory is the total memory obtained from the OS by the Go runtime.
	RuntimeMemory int64 `json:"runtimeMemory,omitempty" yaml:"runtimeMemory,omitempty"`
	// ResidentMemory is the process resident set size.
	ResidentMemory int64 `json:"residentMemory,omitempty" yaml:"residentMemory,omitempty"`
	// SystemLoad is the one minute load average.
	SystemLoad float64 `json:"systemLoad,omitempty" yaml:"systemLoad,omitempty"`
}

// IsZero reports whether no telemetry was captured.
func (s SystemStatus) IsZero() bool {
	return s == SystemStatus{}
}
