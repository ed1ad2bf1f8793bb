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

// Package runtime collects Go runtime, process and system telemetry for
// meters.
//
// Values come from a private prometheus registry holding the standard Go and
// process collectors, so they match what the same process would export on a
// /metrics endpoint. The load average is read through procfs.
//
// Field mapping:
//
//   - HeapUsed: go_memstats_heap_alloc_bytes
//   - HeapCommitted: go_memstats_heap_sys_bytes
//   - HeapMax: go_gc_gomemlimit_bytes (zero when no limit is set)
//   - NonHeapUsed: go_memstats_stack_inuse_bytes
//   - NonHeapCommitted: go_memstats_sys_bytes minus heap_sys
//   - Goroutines, Threads: go_goroutines, go_threads
//   - GCCount, GCTime: go_gc_duration_seconds count and sum
//   - RuntimeMemory: go_memstats_sys_bytes
//   - ResidentMemory: process_resident_memory_bytes (Linux only)
//   - SystemLoad: one minute load average from /proc/loadavg
package runtime
