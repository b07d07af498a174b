// Package kvlm implements the key-value-list-with-message text format used
// as the payload of commit and tag objects: zero or more header fields,
// a blank line, then a free-text message. Field order and duplicate keys
// (e.g. multiple "parent" lines) are significant and preserved.
package kvlm

import (
	"bytes"
	"fmt"
)

// Field is one header key with its values in encounter order. Most keys
// carry a single value; keys that repeat (parent) accumulate.
type Field struct {
	Name   string
	Values [][]byte
}

// Document is an ordered list of header fields plus the trailing message.
type Document struct {
	fields  []Field
	Message []byte
}

// FormatError reports malformed KVLM input.
type FormatError struct {
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("kvlm: offset %d: %s", e.Offset, e.Reason)
}

// Add appends value under name, creating the field on first use and
// appending to it on repeats. Field order is first-seen insertion order.
func (d *Document) Add(name string, value []byte) {
	for i := range d.fields {
		if d.fields[i].Name == name {
			d.fields[i].Values = append(d.fields[i].Values, value)
			return
		}
	}
	d.fields = append(d.fields, Field{Name: name, Values: [][]byte{value}})
}

// Get returns the first value stored under name.
func (d *Document) Get(name string) ([]byte, bool) {
	for i := range d.fields {
		if d.fields[i].Name == name {
			return d.fields[i].Values[0], true
		}
	}
	return nil, false
}

// Values returns all values stored under name, in encounter order.
func (d *Document) Values(name string) [][]byte {
	for i := range d.fields {
		if d.fields[i].Name == name {
			return d.fields[i].Values
		}
	}
	return nil
}

// Fields returns the header fields in first-seen order.
func (d *Document) Fields() []Field {
	return d.fields
}

// Parse decodes a KVLM block. Continuation lines (a leading single space)
// fold into the current value with the space stripped. The first empty line
// terminates the header; everything after its newline is the message.
func Parse(raw []byte) (*Document, error) {
	d := &Document{}

	pos := 0
	for {
		if pos >= len(raw) {
			return nil, &FormatError{Offset: pos, Reason: "missing blank-line message separator"}
		}

		rest := raw[pos:]
		spc := bytes.IndexByte(rest, ' ')
		nl := bytes.IndexByte(rest, '\n')

		// A line with no space before its newline must be the empty line
		// that separates header from message.
		if spc < 0 || (nl >= 0 && nl < spc) {
			if nl != 0 {
				return nil, &FormatError{Offset: pos, Reason: "header line without key/value separator"}
			}
			d.Message = append([]byte(nil), raw[pos+1:]...)
			return d, nil
		}
		if spc == 0 {
			return nil, &FormatError{Offset: pos, Reason: "continuation line with no preceding key"}
		}
		if nl < 0 {
			return nil, &FormatError{Offset: pos, Reason: "unterminated header line"}
		}

		key := string(rest[:spc])

		// The value runs to the first newline not followed by a space.
		end := pos + spc
		for {
			i := bytes.IndexByte(raw[end+1:], '\n')
			if i < 0 {
				return nil, &FormatError{Offset: end, Reason: "unterminated header line"}
			}
			end = end + 1 + i
			if end+1 >= len(raw) {
				return nil, &FormatError{Offset: end, Reason: "missing blank-line message separator"}
			}
			if raw[end+1] != ' ' {
				break
			}
		}

		value := bytes.ReplaceAll(raw[pos+spc+1:end], []byte("\n "), []byte("\n"))
		d.Add(key, value)

		pos = end + 1
	}
}

// Serialize encodes a Document back to its canonical byte form. Newlines
// inside values become "\n " continuations; the blank line before the
// message is always emitted, even for an empty message.
func Serialize(d *Document) []byte {
	var buf bytes.Buffer
	for _, f := range d.fields {
		for _, v := range f.Values {
			buf.WriteString(f.Name)
			buf.WriteByte(' ')
			buf.Write(bytes.ReplaceAll(v, []byte("\n"), []byte("\n ")))
			buf.WriteByte('\n')
		}
	}
	buf.WriteByte('\n')
	buf.Write(d.Message)
	return buf.Bytes()
}
