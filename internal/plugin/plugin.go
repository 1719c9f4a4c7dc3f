// Package plugin defines the capability every steganography algorithm
// exposes to front ends, and a name-keyed registry to select one.
package plugin

import (
	"log"
	"sort"
	"sync"

	"github.com/faanross/simulacra_lsb/internal/config"
	"github.com/faanross/simulacra_lsb/internal/labels"
	"github.com/faanross/simulacra_lsb/internal/stegerr"
)

// Plugin hides messages in images and gets them back out. Images travel
// as encoded file bytes; the file names only pick formats and label errors.
type Plugin interface {
	Name() string
	Description() string
	Usage() string

	// Embed hides msg in cover and returns the stego image encoded in the
	// format stegoFileName asks for. A nil cover means the plugin makes
	// one up.
	Embed(msg []byte, msgFileName string, cover []byte, coverFileName, stegoFileName string) ([]byte, error)

	// ExtractFileName returns the file name stored with the message.
	ExtractFileName(stego []byte, stegoFileName string) (string, error)

	// ExtractData returns the hidden message.
	ExtractData(stego []byte, stegoFileName string) ([]byte, error)
}

// Factory builds a plugin for one run.
type Factory func(cfg *config.Config, lbl *labels.Table, logger *log.Logger) (Plugin, error)

// Registry maps plugin names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Names are unique.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return stegerr.New(stegerr.CodeInvalidConfig, "plugin needs a name and a factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return stegerr.New(stegerr.CodeInvalidConfig, "plugin %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// New builds the plugin registered under name.
func (r *Registry) New(name string, cfg *config.Config, lbl *labels.Table, logger *log.Logger) (Plugin, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, stegerr.New(stegerr.CodeInvalidConfig, "unknown plugin %q (have %v)", name, r.Names())
	}
	return f(cfg, lbl, logger)
}

// Names lists registered plugins in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
