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

import "strings"

// FilterOut returns a copy of the context without keys matching any pattern.
// Supports wildcard patterns:
//   - "prefix*" matches keys starting with "prefix"
//   - "*suffix" matches keys ending with "suffix"
//   - "*contains*" matches keys containing "contains"
//   - "exact" matches keys exactly
func FilterOut(c Context, patterns []string) Context {
	var result Context
	for _, e := range c.entries {
		if !matchesAny(e.Key, patterns) {
			result.entries = append(result.entries, e)
		}
	}
	return result
}

// FilterIn returns a copy of the context holding only keys matching a pattern.
// This is the complement of FilterOut and accepts the same patterns.
func FilterIn(c Context, patterns []string) Context {
	var result Context
	for _, e := range c.entries {
		if matchesAny(e.Key, patterns) {
			result.entries = append(result.entries, e)
		}
	}
	return result
}

// Redact returns a copy of m whose context omits keys matching patterns.
func Redact(m *Measurement, patterns []string) *Measurement {
	c := m.Clone()
	if len(patterns) > 0 {
		c.Context = FilterOut(c.Context, patterns)
	}
	return c
}

// MatchesAny reports whether key matches at least one wildcard pattern.
func MatchesAny(key string, patterns []string) bool {
	return matchesAny(key, patterns)
}

func matchesAny(key string, patterns []string) bool {
	for _, p := range patterns {
		if matchesPattern(key, p) {
			return true
		}
	}
	return false
}

// matchesPattern checks if a key matches a wildcard pattern.
// Supports multiple wildcard segments, e.g., "a*b*c" matches "aXbYc".
func matchesPattern(key, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return key == pattern
	}

	segments := strings.Split(pattern, "*")

	pos := 0
	for i, segment := range segments {
		if segment == "" {
			continue // consecutive wildcards
		}

		// First segment is anchored unless the pattern starts with *
		if i == 0 && pattern[0] != '*' {
			if !strings.HasPrefix(key, segment) {
				return false
			}
			pos = len(segment)
			continue
		}

		// Last segment is anchored unless the pattern ends with *
		if i == len(segments)-1 && pattern[len(pattern)-1] != '*' {
			return len(key)-pos >= len(segment) && strings.HasSuffix(key[pos:], segment)
		}

		idx := strings.Index(key[pos:], segment)
		if idx == -1 {
			return false
		}
		pos += idx + len(segment)
	}

	return true
}
