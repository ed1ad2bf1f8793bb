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
	"fmt"
	"strconv"
	"strings"

	"github.com/NVIDIA/opmeter/pkg/errors"
	"github.com/NVIDIA/opmeter/pkg/measurement"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindFloat
	kindOutcome
	kindContext
)

// field binds an encoded key to a Measurement field.
type field struct {
	key  string
	kind fieldKind
	str  func(m *measurement.Measurement) *string
	num  func(m *measurement.Measurement) *int64
	flt  func(m *measurement.Measurement) *float64
}

func strField(key string, f func(m *measurement.Measurement) *string) field {
	return field{key: key, kind: kindString, str: f}
}

func intField(key string, f func(m *measurement.Measurement) *int64) field {
	return field{key: key, kind: kindInt, num: f}
}

// fields lists every encoded key in output order. The order and the key names
// are part of the format and must not change.
var fields = []field{
	strField("sid", func(m *measurement.Measurement) *string { return &m.SessionID }),
	intField("pos", func(m *measurement.Measurement) *int64 { return &m.Position }),
	strField("cat", func(m *measurement.Measurement) *string { return &m.Category }),
	strField("op", func(m *measurement.Measurement) *string { return &m.Operation }),
	strField("par", func(m *measurement.Measurement) *string { return &m.Parent }),
	strField("desc", func(m *measurement.Measurement) *string { return &m.Description }),
	intField("t0", func(m *measurement.Measurement) *int64 { return &m.CreateTime }),
	intField("t1", func(m *measurement.Measurement) *int64 { return &m.StartTime }),
	intField("t2", func(m *measurement.Measurement) *int64 { return &m.StopTime }),
	intField("tn", func(m *measurement.Measurement) *int64 { return &m.CurrentTime }),
	intField("lim", func(m *measurement.Measurement) *int64 { return &m.TimeLimit }),
	intField("it", func(m *measurement.Measurement) *int64 { return &m.CurrentIteration }),
	intField("exp", func(m *measurement.Measurement) *int64 { return &m.ExpectedIterations }),
	{key: "out", kind: kindOutcome},
	strField("path", func(m *measurement.Measurement) *string { return &m.Path }),
	strField("msg", func(m *measurement.Measurement) *string { return &m.Message }),
	{key: "ctx", kind: kindContext},
	intField("hu", func(m *measurement.Measurement) *int64 { return &m.System.HeapUsed }),
	intField("hc", func(m *measurement.Measurement) *int64 { return &m.System.HeapCommitted }),
	intField("hm", func(m *measurement.Measurement) *int64 { return &m.System.HeapMax }),
	intField("nhu", func(m *measurement.Measurement) *int64 { return &m.System.NonHeapUsed }),
	intField("nhc", func(m *measurement.Measurement) *int64 { return &m.System.NonHeapCommitted }),
	intField("gr", func(m *measurement.Measurement) *int64 { return &m.System.Goroutines }),
	intField("th", func(m *measurement.Measurement) *int64 { return &m.System.Threads }),
	intField("gcc", func(m *measurement.Measurement) *int64 { return &m.System.GCCount }),
	intField("gct", func(m *measurement.Measurement) *int64 { return &m.System.GCTime }),
	intField("rm", func(m *measurement.Measurement) *int64 { return &m.System.RuntimeMemory }),
	intField("rss", func(m *measurement.Measurement) *int64 { return &m.System.ResidentMemory }),
	{key: "sl", kind: kindFloat, flt: func(m *measurement.Measurement) *float64 { return &m.System.SystemLoad }},
}

var fieldsByKey = func() map[string]*field {
	idx := make(map[string]*field, len(fields))
	for i := range fields {
		idx[fields[i].key] = &fields[i]
	}
	return idx
}()

// Encode renders m as an encoded record. Zero fields are omitted.
func Encode(m *measurement.Measurement) string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for i := range fields {
		f := &fields[i]
		v, ok := f.encode(m)
		if !ok {
			continue
		}
		if !first {
			b.WriteByte(';')
		}
		first = false
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(v)
	}
	b.WriteByte('}')
	return b.String()
}

func (f *field) encode(m *measurement.Measurement) (string, bool) {
	switch f.kind {
	case kindString:
		if s := *f.str(m); s != "" {
			return strconv.Quote(s), true
		}
	case kindInt:
		if n := *f.num(m); n != 0 {
			return strconv.FormatInt(n, 10), true
		}
	case kindFloat:
		if v := *f.flt(m); v != 0 {
			return strconv.FormatFloat(v, 'g', -1, 64), true
		}
	case kindOutcome:
		if m.Outcome != measurement.OutcomeNone {
			return string(m.Outcome), true
		}
	case kindContext:
		if !m.Context.IsZero() {
			return encodeContext(m.Context), true
		}
	}
	return "", false
}

func encodeContext(c measurement.Context) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range c.Entries() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(e.Key))
		b.WriteByte(':')
		b.WriteString(strconv.Quote(e.Value))
	}
	b.WriteByte('}')
	return b.String()
}

// IsEncoded reports whether line looks like an encoded record. It does not
// validate the record.
func IsEncoded(line string) bool {
	line = strings.TrimSpace(line)
	if len(line) < 2 || line[0] != '{' || line[len(line)-1] != '}' {
		return false
	}
	if line == "{}" {
		return true
	}
	eq := strings.IndexByte(line, '=')
	return eq > 1 && isKey(line[1:eq])
}

func isKey(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return s != ""
}

// Parse decodes an encoded record. Surrounding whitespace is ignored; any other
// deviation from the format is an ErrCodeInvalidRequest error.
func Parse(line string) (*measurement.Measurement, error) {
	p := &parser{in: strings.TrimSpace(line)}
	m, err := p.record()
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "malformed encoded record", err,
			map[string]any{"offset": p.pos})
	}
	return m, nil
}

type parser struct {
	in  string
	pos int
}

func (p *parser) rest() string { return p.in[p.pos:] }

func (p *parser) eof() bool { return p.pos >= len(p.in) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.in[p.pos]
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		if p.eof() {
			return fmt.Errorf("expected %q, got end of input", c)
		}
		return fmt.Errorf("expected %q, got %q", c, p.peek())
	}
	p.pos++
	return nil
}

func (p *parser) record() (*measurement.Measurement, error) {
	m := &measurement.Measurement{}
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	if p.peek() == '}' {
		p.pos++
		return m, p.end()
	}

	seen := make(map[string]bool, len(fields))
	for {
		key, err := p.key()
		if err != nil {
			return nil, err
		}
		f, ok := fieldsByKey[key]
		if !ok {
			return nil, fmt.Errorf("unknown key %q", key)
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = true

		if err := p.value(f, m); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		switch p.peek() {
		case ';':
			p.pos++
		case '}':
			p.pos++
			return m, p.end()
		default:
			if p.eof() {
				return nil, fmt.Errorf("unterminated record")
			}
			return nil, fmt.Errorf("expected ';' or '}', got %q", p.peek())
		}
	}
}

func (p *parser) end() error {
	if !p.eof() {
		return fmt.Errorf("trailing data %q", p.rest())
	}
	return nil
}

func (p *parser) key() (string, error) {
	eq := strings.IndexByte(p.rest(), '=')
	if eq < 0 {
		return "", fmt.Errorf("missing '='")
	}
	key := p.rest()[:eq]
	if !isKey(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	p.pos += eq + 1
	return key, nil
}

// bare returns the unquoted token up to the next ';' or '}'.
func (p *parser) bare() string {
	end := strings.IndexAny(p.rest(), ";}")
	if end < 0 {
		end = len(p.rest())
	}
	tok := p.rest()[:end]
	p.pos += end
	return tok
}

func (p *parser) quoted() (string, error) {
	q, err := strconv.QuotedPrefix(p.rest())
	if err != nil || q[0] != '"' {
		return "", fmt.Errorf("invalid quoted string")
	}
	s, err := strconv.Unquote(q)
	if err != nil {
		return "", err
	}
	p.pos += len(q)
	return s, nil
}

func (p *parser) value(f *field, m *measurement.Measurement) error {
	switch f.kind {
	case kindString:
		s, err := p.quoted()
		if err != nil {
			return err
		}
		*f.str(m) = s
	case kindInt:
		n, err := strconv.ParseInt(p.bare(), 10, 64)
		if err != nil {
			return err
		}
		*f.num(m) = n
	case kindFloat:
		v, err := strconv.ParseFloat(p.bare(), 64)
		if err != nil {
			return err
		}
		*f.flt(m) = v
	case kindOutcome:
		tok := p.bare()
		o, ok := measurement.ParseOutcome(tok)
		if !ok {
			return fmt.Errorf("invalid outcome %q", tok)
		}
		m.Outcome = o
	case kindContext:
		c, err := p.context()
		if err != nil {
			return err
		}
		m.Context = c
	}
	return nil
}

func (p *parser) context() (measurement.Context, error) {
	var c measurement.Context
	if err := p.expect('{'); err != nil {
		return c, err
	}
	if p.peek() == '}' {
		p.pos++
		return c, nil
	}
	for {
		k, err := p.quoted()
		if err != nil {
			return c, fmt.Errorf("context key: %w", err)
		}
		if c.Has(k) {
			return c, fmt.Errorf("duplicate context key %q", k)
		}
		if err := p.expect(':'); err != nil {
			return c, err
		}
		v, err := p.quoted()
		if err != nil {
			return c, fmt.Errorf("context value for %q: %w", k, err)
		}
		c.Put(k, v)

		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return c, nil
		default:
			return c, fmt.Errorf("expected ',' or '}' in context")
		}
	}
}
