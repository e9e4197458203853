package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	m "github.com/movemut/movemut/internal/model"
)

// ReportStore persists mutation reports. Reports live as one YAML file per
// run inside the reports directory, named after the run ID.
type ReportStore interface {
	Save(ctx context.Context, dir m.Path, report m.MutationReport) (m.Path, error)
	Load(ctx context.Context, path m.Path) (m.MutationReport, error)
	// List returns the report files in dir, sorted by name.
	List(ctx context.Context, dir m.Path) ([]m.Path, error)
}

// YAMLReportStore is the filesystem-backed ReportStore.
type YAMLReportStore struct{}

// NewYAMLReportStore constructs a YAMLReportStore.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// Save writes the report to dir, creating the directory when missing, and
// returns the path written.
func (s *YAMLReportStore) Save(_ context.Context, dir m.Path, report m.MutationReport) (m.Path, error) {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("create reports dir %s: %w", dir, err)
	}

	content, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	path := filepath.Join(string(dir), report.RunID+".yaml")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}

	return m.Path(path), nil
}

// Load reads one report file.
func (s *YAMLReportStore) Load(_ context.Context, path m.Path) (m.MutationReport, error) {
	content, err := os.ReadFile(string(path))
	if err != nil {
		return m.MutationReport{}, fmt.Errorf("read report %s: %w", path, err)
	}

	var report m.MutationReport
	if err := yaml.Unmarshal(content, &report); err != nil {
		return m.MutationReport{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	return report, nil
}

// List returns the YAML report files directly under dir, sorted by name so
// repeated calls render in a stable order.
func (s *YAMLReportStore) List(_ context.Context, dir m.Path) ([]m.Path, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return nil, fmt.Errorf("read reports dir %s: %w", dir, err)
	}

	var paths []m.Path

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		paths = append(paths, m.Path(filepath.Join(string(dir), entry.Name())))
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths, nil
}
