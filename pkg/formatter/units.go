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

package formatter

import (
	"strconv"
	"time"
)

type unit struct {
	name string
	size float64
}

var units = []unit{
	{"ns", 1},
	{"us", float64(time.Microsecond)},
	{"ms", float64(time.Millisecond)},
	{"s", float64(time.Second)},
	{"min", float64(time.Minute)},
	{"h", float64(time.Hour)},
}

// promoteFactor is how far past a unit boundary a value must be before the
// larger unit is used.
const promoteFactor = 1.1

// Nanoseconds renders a duration in nanoseconds with one decimal and the
// largest unit it reaches by promoteFactor.
func Nanoseconds(ns int64) string {
	v := float64(ns)
	abs := v
	if abs < 0 {
		abs = -abs
	}
	u := units[0]
	for _, next := range units[1:] {
		if abs < next.size*promoteFactor {
			break
		}
		u = next
	}
	return strconv.FormatFloat(v/u.size, 'f', 1, 64) + u.name
}

// Duration renders d like Nanoseconds.
func Duration(d time.Duration) string {
	return Nanoseconds(int64(d))
}

// Rate renders an iterations-per-second value.
func Rate(perSecond float64) string {
	return strconv.FormatFloat(perSecond, 'f', 1, 64) + "/s"
}

// Iterations renders "current" or "current/expected".
func Iterations(current, expected int64) string {
	s := strconv.FormatInt(current, 10)
	if expected > 0 {
		s += "/" + strconv.FormatInt(expected, 10)
	}
	return s
}
