// Package langfile implements reading and writing of the flat JSON string
// objects the toolchain works with: per-file fragments under
// chapter<N>/<lang>/obj/, the orphan object, and the compiled language file.
//
// All of these are plain string-to-string JSON objects whose key order is
// meaningful (it mirrors the position of the strings in the game code), so
// encoding/json's map handling cannot be used directly. Parsing walks the
// token stream to preserve document order, and marshaling emits keys in
// insertion order with 2-space indentation and non-ASCII characters left
// unescaped.
package langfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Object is an order-preserving string-to-string JSON object.
type Object struct {
	keys   []string
	values map[string]string
}

// New returns an empty Object.
func New() *Object {
	return &Object{values: make(map[string]string)}
}

// Set stores a value, appending the key if it was not present. Setting an
// existing key overwrites its value but keeps its original position.
func (o *Object) Set(key, value string) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (string, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Len returns the number of entries.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (o *Object) Keys() []string {
	return o.keys
}

// Sort reorders the entries by the given comparison over keys.
func (o *Object) Sort(less func(a, b string) bool) {
	sort.SliceStable(o.keys, func(i, j int) bool { return less(o.keys[i], o.keys[j]) })
}

// Merge copies every entry of other into o in other's order. Keys already
// present keep their position and take other's value.
func (o *Object) Merge(other *Object) {
	for _, k := range other.keys {
		o.Set(k, other.values[k])
	}
}

// ParseFile reads and parses a JSON object file.
func ParseFile(path string) (*Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	obj, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return obj, nil
}

// Parse parses a flat string-to-string JSON object, preserving key order.
func Parse(data []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	return Decode(dec)
}

// Decode reads one string-to-string object from the decoder, preserving key
// order. The next token must be the opening brace; this allows decoding
// objects nested inside a larger document.
func Decode(dec *json.Decoder) (*Object, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected {, got %v", t)
	}

	obj := New()
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}

		vt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		value, ok := vt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string value for key %q, got %T", key, vt)
		}

		obj.Set(key, value)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return obj, nil
}

// Marshal produces the JSON output: keys in insertion order, 2-space
// indentation, non-ASCII preserved, trailing newline.
func (o *Object) Marshal() []byte {
	if len(o.keys) == 0 {
		return []byte("{}\n")
	}

	var b strings.Builder
	b.WriteString("{\n")
	for i, k := range o.keys {
		b.WriteString("  ")
		b.WriteString(Quote(k))
		b.WriteString(": ")
		b.WriteString(Quote(o.values[k]))
		if i < len(o.keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

// WriteFile writes the object to path, creating parent directories.
func (o *Object) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, o.Marshal(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Remove deletes the file at path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Quote returns the JSON encoding of s without HTML escaping, so
// non-ASCII text (Japanese and Vietnamese script in particular) stays
// readable in the output files.
func Quote(s string) string {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	// Encode on a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(b.String(), "\n")
}
