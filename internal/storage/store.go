package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/locosim/internal/config"
	"github.com/san-kum/locosim/internal/sim"
	"github.com/zeebo/xxh3"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
	configFile   = "config.yaml"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Legs       int                `json:"legs"`
	Gait       string             `json:"gait"`
	Path       string             `json:"path"`
	Ground     string             `json:"ground"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	FrameRate  float64            `json:"frame_rate"`
	Duration   float64            `json:"duration"`
	Frames     int                `json:"frames"`
	SubSteps   int                `json:"sub_steps"`
	ConfigHash string             `json:"config_hash"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ConfigHash fingerprints a config so runs of identical setups can be
// grouped.
func ConfigHash(cfg *config.Config) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxh3.Hash(data)), nil
}

func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	hash, err := ConfigHash(cfg)
	if err != nil {
		return "", fmt.Errorf("hash config: %w", err)
	}
	now := time.Now()
	runID, runDir, err := s.reserve(fmt.Sprintf("%s_%d_%s", cfg.Name, now.Unix(), hash[:8]))
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       cfg.Name,
		Legs:       cfg.Rig.Legs,
		Gait:       cfg.Rig.Gait,
		Path:       cfg.Path,
		Ground:     cfg.Ground,
		Timestamp:  now,
		Seed:       cfg.Seed,
		FrameRate:  cfg.FrameRate,
		Duration:   cfg.Duration,
		Frames:     result.Frames,
		SubSteps:   result.SubSteps,
		ConfigHash: hash,
		Metrics:    result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := WriteTraceFile(filepath.Join(runDir, traceFile), result.Samples); err != nil {
		return "", err
	}

	return runID, nil
}

// reserve creates a new run directory named base, or base_2, base_3, ...
// when runs of the same config were saved within the same second.
func (s *Store) reserve(base string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	for seq := 1; ; seq++ {
		id := base
		if seq > 1 {
			id = fmt.Sprintf("%s_%d", base, seq)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadConfig returns the config a run was made with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadTrace(runID string) (*Trace, error) {
	return ReadTraceFile(filepath.Join(s.baseDir, runID, traceFile))
}
