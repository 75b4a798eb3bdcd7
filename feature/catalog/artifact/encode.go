package artifact

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
)

// SharedKey is the top-level key holding objects referenced more than once.
const SharedKey = "$shared"

// Marshal materializes sections and encodes them as an indented artifact document.
// Sections are written in the given order after SharedKey.
func Marshal(sections []Section) ([]byte, error) {
	m := newMaterializer()
	roots := make([]*object, 0, len(sections))
	for _, s := range sections {
		obj, err := m.section(s)
		if err != nil {
			return nil, err
		}
		roots = append(roots, obj)
	}

	var e encoder
	for _, root := range roots {
		e.assign(root)
	}

	var buf bytes.Buffer
	buf.WriteString(`{"` + SharedKey + `":[`)
	for i, obj := range e.shared {
		if i > 0 {
			buf.WriteByte(',')
		}
		e.write(&buf, obj, true)
	}
	buf.WriteByte(']')
	for i, s := range sections {
		buf.WriteByte(',')
		writeString(&buf, s.Name)
		buf.WriteByte(':')
		e.write(&buf, roots[i], true)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent artifact: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Write marshals sections to w.
func Write(w io.Writer, sections []Section) error {
	data, err := Marshal(sections)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}

type encoder struct {
	shared []*object
}

// assign numbers shared objects in first-encounter order.
func (e *encoder) assign(v value) {
	switch v := v.(type) {
	case *object:
		if v.refs > 1 {
			if v.index >= 0 {
				return
			}
			v.index = len(e.shared)
			e.shared = append(e.shared, v)
		}
		for _, child := range v.vals {
			e.assign(child)
		}
	case array:
		for _, child := range v {
			e.assign(child)
		}
	}
}

// write encodes v. A shared object is written in full only when body is set.
func (e *encoder) write(buf *bytes.Buffer, v value, body bool) {
	switch v := v.(type) {
	case scalar:
		buf.Write(v)
	case array:
		buf.WriteByte('[')
		for i, child := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			e.write(buf, child, false)
		}
		buf.WriteByte(']')
	case *object:
		if v.index >= 0 && !body {
			buf.WriteString(`{"$ref":` + strconv.Itoa(v.index) + `}`)
			return
		}
		buf.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, key)
			buf.WriteByte(':')
			e.write(buf, v.vals[i], false)
		}
		buf.WriteByte('}')
	}
}

func writeString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}
