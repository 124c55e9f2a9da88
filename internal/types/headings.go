// Package types provides type definitions for the interview feedback reports
// edited by the service: the plain analysis returned by the backend, the
// ordered template form used for editing, and their supporting records.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// HeadingEntry is one heading/content pair of a HeadingMap.
type HeadingEntry struct {
	Heading string
	Content string
}

// HeadingMap is an insertion-ordered heading -> content dictionary.
// It marshals to and from a JSON object while keeping key order, which
// encoding/json maps would lose.
type HeadingMap []HeadingEntry

// Set assigns content to heading. An existing heading keeps its position.
func (m *HeadingMap) Set(heading, content string) {
	for i := range *m {
		if (*m)[i].Heading == heading {
			(*m)[i].Content = content
			return
		}
	}
	*m = append(*m, HeadingEntry{Heading: heading, Content: content})
}

// Get returns the content stored under heading.
func (m HeadingMap) Get(heading string) (string, bool) {
	for _, e := range m {
		if e.Heading == heading {
			return e.Content, true
		}
	}
	return "", false
}

// Keys returns the headings in insertion order.
func (m HeadingMap) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Heading
	}
	return keys
}

// Entries returns a copy of the heading/content pairs in insertion order.
func (m HeadingMap) Entries() []HeadingEntry {
	out := make([]HeadingEntry, len(m))
	copy(out, m)
	return out
}

// Len returns the number of headings.
func (m HeadingMap) Len() int {
	return len(m)
}

// Clone returns an independent copy.
func (m HeadingMap) Clone() HeadingMap {
	if m == nil {
		return nil
	}
	out := make(HeadingMap, len(m))
	copy(out, m)
	return out
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m HeadingMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Heading)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Content)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order. A key repeated
// in the input keeps its first position and its last value.
func (m *HeadingMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read heading map: %w", err)
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("heading map must be a JSON object, got %v", tok)
	}

	out := HeadingMap{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read heading: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("heading must be a string, got %v", keyTok)
		}

		var content string
		if err := dec.Decode(&content); err != nil {
			return fmt.Errorf("failed to read content for heading %q: %w", key, err)
		}
		out.Set(key, content)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to close heading map: %w", err)
	}

	*m = out
	return nil
}
