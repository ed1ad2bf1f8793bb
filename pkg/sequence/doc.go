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

// Package sequence assigns position numbers to operation occurrences.
//
// Each key (a meter's category, or category/operation) owns an atomic counter
// stored in a sync.Map. Counters are created lazily, incremented with a
// compare-and-swap loop, and wrap from math.MaxInt64 back to 1. Nothing is
// persisted: positions restart at 1 in every process.
//
//	pos := sequence.Next("billing.invoice/render") // 1, 2, 3, ...
package sequence
