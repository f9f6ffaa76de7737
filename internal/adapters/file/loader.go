package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
)

var extensions = []string{".yaml", ".yml", ".json"}

// Loader implements ports.MachineLoader over a directory of YAML/JSON
// definition files. The machine name is the file name without extension.
// Files are read on every call, so edits are picked up without restarting.
type Loader struct {
	Dir    string
	parser *compiler.Parser
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir, parser: compiler.NewParser()}
}

// GetMachine parses <dir>/<name>.{yaml,yml,json}.
func (l *Loader) GetMachine(ctx context.Context, name string) (*domain.Definition, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", domain.ErrMachineNotFound, name)
	}
	for _, ext := range extensions {
		data, err := os.ReadFile(filepath.Join(l.Dir, name+ext))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read machine %s: %w", name, err)
		}
		def, err := l.parser.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("machine %s: %w", name, err)
		}
		def.Name = name
		return def, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
}

// ListMachines returns the names of all definition files in the directory.
func (l *Loader) ListMachines(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !supported(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if other, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: machine '%s' is defined in both '%s' and '%s'", name, other, entry.Name())
		}
		seen[name] = entry.Name()
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func supported(ext string) bool {
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
