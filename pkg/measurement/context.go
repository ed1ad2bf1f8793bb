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

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is one key/value pair of a Context.
type Entry struct {
	Key   string
	Value string
}

// Context is an insertion-ordered string map of caller-attached diagnostics.
// The zero value is an empty context ready for use.
type Context struct {
	entries []Entry
}

// NewContext builds a Context from alternating key, value arguments.
// A trailing key without value is stored with an empty value.
func NewContext(kv ...string) Context {
	var c Context
	for i := 0; i < len(kv); i += 2 {
		v := ""
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		c.Put(kv[i], v)
	}
	return c
}

// Put sets key to value. An existing key keeps its original position.
func (c *Context) Put(key, value string) {
	for i := range c.entries {
		if c.entries[i].Key == key {
			c.entries[i].Value = value
			return
		}
	}
	c.entries = append(c.entries, Entry{Key: key, Value: value})
}

// Get returns the value for key.
func (c Context) Get(key string) (string, bool) {
	for _, e := range c.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Has checks if a key exists in the context.
func (c Context) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes key, keeping the order of the remaining entries.
func (c *Context) Delete(key string) {
	for i := range c.entries {
		if c.entries[i].Key == key {
			c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of entries.
func (c Context) Len() int { return len(c.entries) }

// IsZero reports whether the context has no entries.
func (c Context) IsZero() bool { return len(c.entries) == 0 }

// Keys returns the keys in insertion order.
func (c Context) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (c Context) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Clone returns an independent copy.
func (c Context) Clone() Context {
	if len(c.entries) == 0 {
		return Context{}
	}
	return Context{entries: c.Entries()}
}

// Equal compares entries and order.
func (c Context) Equal(other Context) bool {
	if len(c.entries) != len(other.entries) {
		return false
	}
	for i := range c.entries {
		if c.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}

// MarshalJSON writes the context as a JSON object preserving insertion order.
func (c Context) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of strings, keeping the document order.
func (c *Context) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = Context{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("context must be a JSON object, got %v", tok)
	}
	var out Context
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("context key must be a string, got %v", kt)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("context value for %q: %w", key, err)
		}
		out.Put(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}

// MarshalYAML writes the context as a YAML mapping preserving insertion order.
func (c Context) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range c.entries {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Value},
		)
	}
	return node, nil
}

// UnmarshalYAML reads a YAML mapping of strings, keeping the document order.
func (c *Context) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("context must be a YAML mapping, got kind %d", node.Kind)
	}
	var out Context
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key, value string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("context value for %q: %w", key, err)
		}
		out.Put(key, value)
	}
	*c = out
	return nil
}
