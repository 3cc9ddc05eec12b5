package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"

	apperrors "callcast/internal/errors"
	"callcast/pkg/contracts/domain"
)

// ManifestFileName is the manifest's file name inside the output directory.
const ManifestFileName = "manifest.yaml"

// Manifest records what one run produced. It is written next to the output
// table so downstream loaders can discover the table without parsing it.
type Manifest struct {
	RunID       string         `yaml:"run_id" json:"run_id"`
	GeneratedAt time.Time      `yaml:"generated_at" json:"generated_at"`
	Rows        int            `yaml:"rows" json:"rows"`
	Cols        int            `yaml:"cols" json:"cols"`
	OutputPath  string         `yaml:"output_path" json:"output_path"`
	Format      string         `yaml:"format" json:"format"`
	Started     time.Time      `yaml:"started" json:"started"`
	Finished    time.Time      `yaml:"finished" json:"finished"`
	Duration    string         `yaml:"duration" json:"duration"`
	Groups      []GroupOutcome `yaml:"groups" json:"groups"`
}

// NewManifest builds the manifest for one finished run.
func NewManifest(runID string, table *domain.FeatureTable, outputPath, format string,
	groups []GroupOutcome, started, finished time.Time) *Manifest {
	return &Manifest{
		RunID:       runID,
		GeneratedAt: finished.UTC(),
		Rows:        table.Rows(),
		Cols:        table.Cols(),
		OutputPath:  outputPath,
		Format:      format,
		Started:     started.UTC(),
		Finished:    finished.UTC(),
		Duration:    finished.Sub(started).Round(time.Millisecond).String(),
		Groups:      groups,
	}
}

// Save writes the manifest into dir and returns its path.
func (m *Manifest) Save(dir string) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", apperrors.NewStorageError("cannot marshal manifest", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("cannot create output directory %s", dir), err)
	}
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("cannot write manifest %s", path), err)
	}
	return path, nil
}

// LoadManifest reads a manifest written by a previous run.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("cannot read manifest %s", path), err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("cannot parse manifest %s", path), err)
	}
	return &m, nil
}

func newRunID() string {
	return uuid.New().String()
}
