package explore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/leaguelens/internal/cluster"
	"github.com/KaramelBytes/leaguelens/internal/stats"
	"github.com/KaramelBytes/leaguelens/internal/utils"
	"github.com/google/uuid"
)

const manifestFileName = "manifest.json"

// Manifest records what an exploration run computed and wrote.
type Manifest struct {
	RunID        string               `json:"run_id"`
	Source       string               `json:"source"`
	Teams        int                  `json:"teams"`
	Scaled       bool                 `json:"scaled"`
	Correlations []stats.Pair         `json:"correlations"`
	Elbow        []cluster.ElbowPoint `json:"elbow"`
	Clusters     int                  `json:"clusters"`
	ClusterSizes []int                `json:"cluster_sizes"`
	Artifacts    []Artifact           `json:"artifacts"`
	CreatedAt    time.Time            `json:"created_at"`

	// Not serialized: directory holding manifest.json and the artifacts
	outDir string `json:"-"`
}

// Artifact is one file produced by a run.
type Artifact struct {
	Name  string `json:"name"`
	File  string `json:"file"`
	Title string `json:"title"`
}

// NewManifest constructs an in-memory manifest. Call Save() to persist.
func NewManifest(source, outDir string) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		Source:    source,
		CreatedAt: time.Now(),
		outDir:    outDir,
	}
}

// LoadManifest reads manifest.json from dir.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.outDir = dir
	return &m, nil
}

// OutDir returns the directory the run wrote into.
func (m *Manifest) OutDir() string { return m.outDir }

// Path returns the location of an artifact file.
func (m *Manifest) Path(a Artifact) string { return filepath.Join(m.outDir, a.File) }

// Save writes manifest.json using atomic write.
func (m *Manifest) Save() error {
	if m.outDir == "" {
		return errors.New("manifest output directory not set")
	}
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(m.outDir, manifestFileName), data)
}
