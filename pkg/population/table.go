package population

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Aggregate is the gender and nationality split of a population total.
type Aggregate struct {
	Male     int64 `json:"male"`
	Female   int64 `json:"female"`
	Saudi    int64 `json:"saudi"`
	NonSaudi int64 `json:"non_saudi"`
	Total    int64 `json:"total"`
}

// add accumulates a granular record. Callers filter out Total and Unknown
// categories first.
func (a *Aggregate) add(r Record) {
	a.Total += r.Population
	switch r.Sex {
	case SexMale:
		a.Male += r.Population
	case SexFemale:
		a.Female += r.Population
	}
	switch r.Nationality {
	case NationalitySaudi:
		a.Saudi += r.Population
	case NationalityNonSaudi:
		a.NonSaudi += r.Population
	}
}

// Table is an insertion-ordered mapping of label to Aggregate. Its JSON
// form is an object whose keys appear in table order.
type Table struct {
	keys []string
	rows map[string]*Aggregate
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[string]*Aggregate)}
}

// entry returns the aggregate for key, creating it at the end of the table
// on first use.
func (t *Table) entry(key string) *Aggregate {
	if t.rows == nil {
		t.rows = make(map[string]*Aggregate)
	}
	a, ok := t.rows[key]
	if !ok {
		a = &Aggregate{}
		t.rows[key] = a
		t.keys = append(t.keys, key)
	}
	return a
}

// Set stores an aggregate under key. New keys are appended.
func (t *Table) Set(key string, a Aggregate) {
	*t.entry(key) = a
}

// Get returns the aggregate stored under key.
func (t *Table) Get(key string) (Aggregate, bool) {
	if t == nil {
		return Aggregate{}, false
	}
	a, ok := t.rows[key]
	if !ok {
		return Aggregate{}, false
	}
	return *a, true
}

// Keys returns the labels in table order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Sum returns the sum of all entry totals.
func (t *Table) Sum() int64 {
	if t == nil {
		return 0
	}
	var sum int64
	for _, a := range t.rows {
		sum += a.Total
	}
	return sum
}

// SortedByTotal returns a copy ordered by descending total. Ties keep their
// current relative order.
func (t *Table) SortedByTotal() *Table {
	keys := t.Keys()
	sort.SliceStable(keys, func(i, j int) bool {
		return t.rows[keys[i]].Total > t.rows[keys[j]].Total
	})
	return t.withOrder(keys)
}

// Reordered returns a copy whose entries follow order for every label
// present in the table, followed by the remaining labels in their current
// order.
func (t *Table) Reordered(order []string) *Table {
	keys := make([]string, 0, t.Len())
	placed := make(map[string]bool, t.Len())
	for _, k := range order {
		if _, ok := t.rows[k]; ok && !placed[k] {
			keys = append(keys, k)
			placed[k] = true
		}
	}
	for _, k := range t.Keys() {
		if !placed[k] {
			keys = append(keys, k)
		}
	}
	return t.withOrder(keys)
}

func (t *Table) withOrder(keys []string) *Table {
	out := NewTable()
	for _, k := range keys {
		out.Set(k, *t.rows[k])
	}
	return out
}

// MarshalJSON encodes the table as an object in table order.
func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(k); err != nil {
			return nil, fmt.Errorf("encode key %q: %w", k, err)
		}
		// Encoder appends a newline after each value.
		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(':')
		if err := enc.Encode(t.rows[k]); err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, keeping keys in document order. A
// repeated key overwrites the earlier value in place.
func (t *Table) UnmarshalJSON(data []byte) error {
	*t = Table{rows: make(map[string]*Aggregate)}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("table: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("table: expected string key, got %v", tok)
		}
		var a Aggregate
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("table: entry %q: %w", key, err)
		}
		t.Set(key, a)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
