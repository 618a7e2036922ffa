package table

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is a single header/value pair of a Record.
type Field struct {
	Name  string
	Value any
}

// Record is one data row keyed by the header row. Field order follows the
// header order and survives JSON encoding.
type Record struct {
	fields []Field
}

// Fields returns the record fields in header order.
func (r Record) Fields() []Field {
	return r.fields
}

// Get returns the value stored under name.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// set stores value under name. A repeated header overwrites the earlier value
// but keeps its position.
func (r *Record) set(name string, value any) {
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields[i].Value = value
			return
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: value})
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalValue(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := marshalValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Normalize turns a header + rows grid into typed records. A grid without data
// rows yields no records. Short rows are padded with empty strings and long
// rows are cut to the header width.
func Normalize(grid [][]any) []Record {
	if len(grid) < 2 {
		return nil
	}

	headers := grid[0]
	records := make([]Record, 0, len(grid)-1)
	for _, row := range grid[1:] {
		var record Record
		for i, header := range headers {
			var value any = ""
			if i < len(row) {
				value = row[i]
			}
			record.set(headerKey(header), coerceCell(value))
		}
		records = append(records, record)
	}

	return records
}

// FormatJSON renders the normalized grid as an indented JSON array of objects.
// It returns an empty string when the grid has no data rows.
func FormatJSON(grid [][]any) (string, error) {
	records := Normalize(grid)
	if len(records) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("encode table: %w", err)
	}

	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
