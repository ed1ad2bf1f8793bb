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

// Package session identifies the running process. Every meter line carries the
// session id so lines from different runs of the same program can be told apart.
package session

import (
	"sync"

	"github.com/google/uuid"
)

var (
	mu sync.RWMutex
	id = uuid.NewString()
)

// ID returns the session id, assigned once per process.
func ID() string {
	mu.RLock()
	defer mu.RUnlock()
	return id
}

// Override replaces the session id, for example with an id handed down by a
// supervisor, and returns the previous one.
func Override(newID string) string {
	mu.Lock()
	defer mu.Unlock()
	prev := id
	id = newID
	return prev
}
