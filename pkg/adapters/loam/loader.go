package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/dto"
	"github.com/aretw0/turing/pkg/domain"
)

// Metadata is the front matter of a machine document.
type Metadata = dto.MachineDocument

// Loader adapts a Loam repository of Markdown (or JSON/YAML) documents to the
// ports.MachineLoader interface. Each document is one machine: its front
// matter holds the definition and its body, when present, the description.
type Loader struct {
	Repo   *loam.TypedRepository[Metadata]
	parser *compiler.Parser
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[Metadata]) *Loader {
	return &Loader{
		Repo:   repo,
		parser: compiler.NewParser(),
	}
}

// Open initializes a read-only Loam repository at path and wraps it.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers as json.Number across formats; read-only
	// avoids Loam's dev sandbox since machines are never written back.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[Metadata](repo)), nil
}

// GetMachine retrieves and compiles the machine document called name.
func (l *Loader) GetMachine(ctx context.Context, name string) (*domain.Definition, error) {
	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMachineNotFound, name, err)
	}

	meta := doc.Data
	if meta.Description == "" {
		meta.Description = strings.TrimSpace(doc.Content)
	}

	def, err := l.parser.Compile(meta)
	if err != nil {
		return nil, fmt.Errorf("machine %s: %w", name, err)
	}
	def.Name = machineID(doc.ID, doc.Data)
	return def, nil
}

// ListMachines lists all machine documents in the repository.
func (l *Loader) ListMachines(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		id := machineID(doc.ID, doc.Data)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: machine '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// machineID prefers the id from the front matter over the document path.
func machineID(docID string, meta Metadata) string {
	rawID := meta.ID
	if rawID == "" {
		rawID = docID
	}
	return trimExtension(rawID)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
