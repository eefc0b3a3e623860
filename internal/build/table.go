package build

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Table holds records keyed by build string
type Table struct {
	records  map[string]Record
	versions map[string]Version
}

// NewTable creates an empty Table
func NewTable() *Table {
	return &Table{
		records:  make(map[string]Record),
		versions: make(map[string]Version),
	}
}

// Put stores r under r.Build, replacing any existing record
func (t *Table) Put(r Record) {
	if t.records == nil {
		t.records = make(map[string]Record)
		t.versions = make(map[string]Version)
	}
	if r.KBNumbers == nil {
		r.KBNumbers = []KB{}
	}
	if _, ok := t.records[r.Build]; !ok {
		t.versions[r.Build] = ParseVersion(r.Build)
	}
	t.records[r.Build] = r
}

// AddIfAbsent stores r only when its build is not in the table yet.
// It returns true when r was added.
func (t *Table) AddIfAbsent(r Record) bool {
	if _, ok := t.records[r.Build]; ok {
		return false
	}
	t.Put(r)
	return true
}

// Get returns the record for a build
func (t *Table) Get(build string) (Record, bool) {
	r, ok := t.records[build]
	return r, ok
}

// Len returns the number of builds in the table
func (t *Table) Len() int {
	return len(t.records)
}

// Keys returns the builds in ascending version order
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.records))
	for k := range t.records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return t.versions[keys[i]].Less(t.versions[keys[j]])
	})
	return keys
}

// Records returns the records in ascending version order
func (t *Table) Records() []Record {
	keys := t.Keys()
	out := make([]Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.records[k])
	}
	return out
}

// Latest returns the record with the highest build, if any
func (t *Table) Latest() (Record, bool) {
	keys := t.Keys()
	if len(keys) == 0 {
		return Record{}, false
	}
	return t.records[keys[len(keys)-1]], true
}

// MarshalJSON encodes the table as a JSON object whose keys are in version order
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(k)
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", k, err)
		}
		val, err := marshalNoEscape(t.records[k])
		if err != nil {
			return nil, fmt.Errorf("encoding record %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of records. Keys are taken from the object,
// not from the records' build field.
func (t *Table) UnmarshalJSON(data []byte) error {
	var raw map[string]Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.records = make(map[string]Record, len(raw))
	t.versions = make(map[string]Version, len(raw))
	for k, r := range raw {
		if r.KBNumbers == nil {
			r.KBNumbers = []KB{}
		}
		t.records[k] = r
		t.versions[k] = ParseVersion(k)
	}
	return nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
