package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	m "github.com/movemut/movemut/internal/model"
)

// ModelLoader loads the resolved package representation produced by the Move
// compiler frontend. The engine never parses Move sources itself; the dump is
// the interface boundary to the compiler collaborator.
type ModelLoader interface {
	// LoadFile reads a model dump from a JSON file.
	LoadFile(ctx context.Context, path m.Path) (*m.PackageModel, error)

	// LoadCommand runs the configured dump command in the package root and
	// parses its stdout as a model dump.
	LoadCommand(ctx context.Context, command string, packageRoot m.Path) (*m.PackageModel, error)
}

// JSONModelLoader is the concrete ModelLoader for JSON model dumps.
type JSONModelLoader struct{}

// NewJSONModelLoader constructs a JSONModelLoader.
func NewJSONModelLoader() *JSONModelLoader {
	return &JSONModelLoader{}
}

// LoadFile reads and validates a model dump from disk.
func (l *JSONModelLoader) LoadFile(_ context.Context, path m.Path) (*m.PackageModel, error) {
	content, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read model dump %s: %w", path, err)
	}

	return decodeModel(content, filepath.Dir(string(path)))
}

// LoadCommand runs the dump command (split on whitespace, no shell) in the
// package root and parses its stdout.
func (l *JSONModelLoader) LoadCommand(ctx context.Context, command string, packageRoot m.Path) (*m.PackageModel, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty model dump command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = string(packageRoot)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("model dump command failed: %w: %s", err, stderr.String())
	}

	return decodeModel(stdout.Bytes(), string(packageRoot))
}

// decodeModel parses a dump and anchors relative file paths at base so the
// engine always works with resolvable paths.
func decodeModel(content []byte, base string) (*m.PackageModel, error) {
	var pkg m.PackageModel

	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&pkg); err != nil {
		return nil, fmt.Errorf("decode model dump: %w", err)
	}

	if pkg.Root == "" {
		pkg.Root = m.Path(base)
	} else if !filepath.IsAbs(string(pkg.Root)) {
		pkg.Root = m.Path(filepath.Join(base, string(pkg.Root)))
	}

	for mi := range pkg.Modules {
		for fi := range pkg.Modules[mi].Functions {
			fn := &pkg.Modules[mi].Functions[fi]
			if fn.File == "" {
				return nil, fmt.Errorf("function %s::%s has no source file", fn.Module, fn.Name)
			}

			if !filepath.IsAbs(string(fn.File)) {
				fn.File = m.Path(filepath.Join(string(pkg.Root), string(fn.File)))
			}
		}
	}

	return &pkg, nil
}
