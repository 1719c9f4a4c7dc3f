// Package labels holds the user-facing strings of plugins and CLIs.
//
// A Table is built once at startup and handed by pointer to whoever needs
// it. It has no mutators, so sharing it across goroutines is safe.
package labels

import (
	"fmt"
	"sort"
)

// Table is an immutable key -> format string lookup, grouped by namespace.
type Table struct {
	entries map[string]map[string]string
}

// New builds a table from namespace -> key -> format maps.
// The input is copied.
func New(src map[string]map[string]string) *Table {
	t := &Table{entries: make(map[string]map[string]string, len(src))}
	for ns, kv := range src {
		m := make(map[string]string, len(kv))
		for k, v := range kv {
			m[k] = v
		}
		t.entries[ns] = m
	}
	return t
}

// Default returns a fresh table with the built-in English labels.
func Default() *Table {
	return New(map[string]map[string]string{
		"RandomLSB": {
			"plugin.description": "Random LSB: hides data in the least significant bits of " +
				"colour channels at pseudorandom positions",
			"plugin.usage": "Options for RandomLSB:\n" +
				"    -bits <n>        bits used per colour channel, 1-8 (default %d)\n" +
				"    -compress        compress the message before embedding\n" +
				"    -encrypt         encrypt the message with a password\n" +
				"    -algorithm <a>   DES, AES128 or AES256 (default DES)",
		},
		"cli": {
			"embed.banner":   "Random LSB Steganography Embedder",
			"extract.banner": "Random LSB Steganography Extractor",
			"password.enter": "Enter password: ",
			"password.again": "Confirm password: ",
			"password.diff":  "passwords do not match",
		},
	})
}

// Get formats the label for key in namespace ns. A missing key returns
// "ns.key" so gaps show up in output rather than as empty strings.
func (t *Table) Get(ns, key string, args ...any) string {
	format, ok := t.entries[ns][key]
	if !ok {
		return ns + "." + key
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Namespaces lists the namespaces in sorted order.
func (t *Table) Namespaces() []string {
	out := make([]string, 0, len(t.entries))
	for ns := range t.entries {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}
