package labels

import (
	"reflect"
	"testing"
)

func TestGet(t *testing.T) {
	tbl := New(map[string]map[string]string{
		"ns": {"plain": "hello", "fmt": "depth %d"},
	})

	tests := []struct {
		name string
		key  string
		args []any
		want string
	}{
		{name: "plain", key: "plain", want: "hello"},
		{name: "formatted", key: "fmt", args: []any{3}, want: "depth 3"},
		{name: "missing", key: "nope", want: "ns.nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tbl.Get("ns", tt.key, tt.args...); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	src := map[string]map[string]string{"ns": {"k": "v"}}
	tbl := New(src)
	src["ns"]["k"] = "changed"

	if got := tbl.Get("ns", "k"); got != "v" {
		t.Errorf("table changed with its source: got %q", got)
	}
}

func TestDefaultNamespaces(t *testing.T) {
	got := Default().Namespaces()
	want := []string{"RandomLSB", "cli"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
