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

import (
	"sync/atomic"
	"time"
)

// Clock returns monotonic readings in nanoseconds. Readings must be positive;
// zero is reserved for "not reached".
type Clock func() int64

var (
	epoch    = time.Now()
	lastTick atomic.Int64
)

// Monotonic is the default Clock. It reads the monotonic clock relative to
// process start and never returns the same value twice, so consecutive
// timestamps taken by one meter are strictly ordered.
func Monotonic() int64 {
	now := int64(time.Since(epoch)) + 1
	for {
		last := lastTick.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if lastTick.CompareAndSwap(last, next) {
			return next
		}
	}
}
