package plugin

import (
	"errors"
	"log"
	"reflect"
	"testing"

	"github.com/faanross/simulacra_lsb/internal/config"
	"github.com/faanross/simulacra_lsb/internal/labels"
	"github.com/faanross/simulacra_lsb/internal/stegerr"
)

// echo stores nothing; it only proves the registry plumbing.
type echo struct{ name string }

func (e echo) Name() string { return e.name }
func (e echo) Description() string { return "echo" }
func (e echo) Usage() string { return "" }
func (e echo) Embed(msg []byte, _ string, _ []byte, _, _ string) ([]byte, error) {
	return msg, nil
}
func (e echo) ExtractFileName([]byte, string) (string, error) { return "", nil }
func (e echo) ExtractData(stego []byte, _ string) ([]byte, error) {
	return stego, nil
}

func echoFactory(name string) Factory {
	return func(*config.Config, *labels.Table, *log.Logger) (Plugin, error) {
		return echo{name: name}, nil
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"Zeta", "Alpha"} {
		if err := r.Register(name, echoFactory(name)); err != nil {
			t.Fatalf("Register(%q) failed: %v", name, err)
		}
	}

	if got, want := r.Names(), []string{"Alpha", "Zeta"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	p, err := r.New("Zeta", nil, nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.Name() != "Zeta" {
		t.Errorf("expected Zeta, got %s", p.Name())
	}
}

func TestRegistryRejects(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("A", echoFactory("A")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		err  error
	}{
		{"duplicate", r.Register("A", echoFactory("A"))},
		{"empty name", r.Register("", echoFactory(""))},
		{"nil factory", r.Register("B", nil)},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, stegerr.ErrInvalidConfig) {
			t.Errorf("%s: expected invalid config, got %v", tt.name, tt.err)
		}
	}

	if _, err := r.New("Missing", nil, nil, nil); !errors.Is(err, stegerr.ErrInvalidConfig) {
		t.Errorf("unknown plugin: expected invalid config, got %v", err)
	}
}
