// Package cos is a minimal PDF "Carousel Object System" model: just enough
// of the object graph (dictionaries, arrays, names, references, streams) to
// append new objects to an existing PDF via an incremental update, the way
// every real PDF editor adds content without touching the bytes already on
// disk. It is not a general-purpose PDF library; it supports exactly the
// read/write operations zugferd embedding and extraction need.
package cos

import (
	"bytes"
	"fmt"
	"sort"
)

// Ref is an indirect object reference (object number, generation).
type Ref struct {
	Num, Gen int
}

func (r Ref) bytes() []byte {
	return []byte(fmt.Sprintf("%d %d R", r.Num, r.Gen))
}

// Name is a PDF name object, written with its leading slash.
type Name string

// Dict is a PDF dictionary. Keys are written in sorted order so output is
// deterministic, which matters for tests comparing encoded bytes.
type Dict map[string]any

// Array is a PDF array.
type Array []any

// Stream pairs a dictionary with raw (already-encoded) stream data. Encode
// sets /Length from Data; callers set any /Filter the data already has
// applied. Encoding never compresses; on the read side, extract.go inflates
// FlateDecode streams.
type Stream struct {
	Dict Dict
	Data []byte
}

// Literal is a pre-formatted fragment inserted verbatim, used for merging
// raw dictionary text recovered from an existing PDF object (see
// ParseDictEntries) back into a rewritten dictionary without having to
// fully parse it.
type Literal string

// Object pairs an object number/generation with its value, the unit this
// package reads and writes.
type Object struct {
	Ref   Ref
	Value any
}

func writeValue(buf *bytes.Buffer, v any) {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case int:
		fmt.Fprintf(buf, "%d", val)
	case int64:
		fmt.Fprintf(buf, "%d", val)
	case float64:
		fmt.Fprintf(buf, "%g", val)
	case string:
		writeLiteralString(buf, val)
	case Name:
		buf.WriteByte('/')
		buf.WriteString(string(val))
	case Ref:
		buf.Write(val.bytes())
	case Literal:
		buf.WriteString(string(val))
	case Array:
		buf.WriteByte('[')
		for i, e := range val {
			if i > 0 {
				buf.WriteByte(' ')
			}
			writeValue(buf, e)
		}
		buf.WriteByte(']')
	case Dict:
		writeDict(buf, val)
	default:
		fmt.Fprintf(buf, "%v", val)
	}
}

func writeLiteralString(buf *bytes.Buffer, s string) {
	buf.WriteByte('(')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '(', ')', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(c)
		default:
			buf.WriteByte(c)
		}
	}
	buf.WriteByte(')')
}

func writeDict(buf *bytes.Buffer, d Dict) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	buf.WriteString("<<")
	for _, k := range keys {
		buf.WriteByte('/')
		buf.WriteString(k)
		buf.WriteByte(' ')
		writeValue(buf, d[k])
		buf.WriteByte(' ')
	}
	buf.WriteString(">>")
}

// Encode serializes an indirect object ("N G obj ... endobj") including its
// trailing newline, the unit the incremental-update writer places at a
// known byte offset for the cross-reference table.
func Encode(obj Object) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d obj\n", obj.Ref.Num, obj.Ref.Gen)
	if s, ok := obj.Value.(Stream); ok {
		d := Dict{}
		for k, v := range s.Dict {
			d[k] = v
		}
		d["Length"] = len(s.Data)
		writeDict(&buf, d)
		buf.WriteString("\nstream\n")
		buf.Write(s.Data)
		buf.WriteString("\nendstream")
	} else {
		writeValue(&buf, obj.Value)
	}
	buf.WriteString("\nendobj\n")
	return buf.Bytes()
}
