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

// Diff compares two measurements field by field and returns the names of the
// fields that differ, using the encoded-format key of each field. Context is
// compared including entry order. A nil measurement differs from any non-nil
// one in every field.
func Diff(a, b *Measurement) []string {
	if a == nil || b == nil {
		if a == b {
			return nil
		}
		return []string{"*"}
	}

	var diffs []string
	check := func(name string, equal bool) {
		if !equal {
			diffs = append(diffs, name)
		}
	}

	check("sid", a.SessionID == b.SessionID)
	check("pos", a.Position == b.Position)
	check("cat", a.Category == b.Category)
	check("op", a.Operation == b.Operation)
	check("par", a.Parent == b.Parent)
	check("desc", a.Description == b.Description)
	check("t0", a.CreateTime == b.CreateTime)
	check("t1", a.StartTime == b.StartTime)
	check("t2", a.StopTime == b.StopTime)
	check("tn", a.CurrentTime == b.CurrentTime)
	check("lim", a.TimeLimit == b.TimeLimit)
	check("it", a.CurrentIteration == b.CurrentIteration)
	check("exp", a.ExpectedIterations == b.ExpectedIterations)
	check("out", a.Outcome == b.Outcome)
	check("path", a.Path == b.Path)
	check("msg", a.Message == b.Message)
	check("ctx", a.Context.Equal(b.Context))
	check("sys", a.System == b.System)

	return diffs
}
