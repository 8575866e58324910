package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/field"
)

const (
	metadataFile     = "metadata.json"
	gravityFile      = "gravity.csv"
	metricFile       = "metric.csv"
	stressEnergyFile = "stress_energy.csv"
	trajectoryFile   = "trajectory.csv"
	catalogFile      = "catalog.db"
)

// Store keeps one directory per run under baseDir and indexes the runs in a
// SQLite catalog next to them.
type Store struct {
	baseDir string
	catalog *Catalog
}

func New(baseDir string) *Store {
	return &Store{
		baseDir: baseDir,
		catalog: NewCatalog(filepath.Join(baseDir, catalogFile)),
	}
}

func (s *Store) Init(ctx context.Context) error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}
	return s.catalog.Init(ctx)
}

func (s *Store) Close() error {
	return s.catalog.Close()
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	Matter        string             `json:"matter"`
	N             int                `json:"n"`
	L             float64            `json:"l"`
	Workers       int                `json:"workers"`
	Relax         int                `json:"relax"`
	TimingsMs     map[string]float64 `json:"timings_ms"`
	BlackHoles    int                `json:"black_holes"`
	HasTrajectory bool               `json:"has_trajectory"`
}

func (m *RunMetadata) Grid() (field.Grid, error) {
	return field.NewGrid(m.N, m.L)
}

// Save writes the three fields of res under a fresh run ID and records the
// run in the catalog.
func (s *Store) Save(ctx context.Context, matter string, cfg experiment.Config, res *experiment.Result) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now().UTC(),
		Matter:    matter,
		N:         res.Grid.N(),
		L:         res.Grid.L(),
		Workers:   cfg.Workers,
		Relax:     cfg.Relax,
		TimingsMs: make(map[string]float64, len(res.Timings)),
	}
	for stage, d := range res.Timings {
		meta.TimingsMs[stage] = float64(d.Microseconds()) / 1000
	}

	if err := s.writeMetadata(&meta); err != nil {
		return "", err
	}
	if err := writeFieldCSV(filepath.Join(runDir, gravityFile), res.Grid, res.Gravity.Data(), vectorHeader); err != nil {
		return "", err
	}
	if err := writeFieldCSV(filepath.Join(runDir, metricFile), res.Grid, res.Metric.Data(), tensorHeader("g")); err != nil {
		return "", err
	}
	if err := writeFieldCSV(filepath.Join(runDir, stressEnergyFile), res.Grid, res.StressEnergy.Data(), tensorHeader("t")); err != nil {
		return "", err
	}

	if err := s.catalog.InsertRun(ctx, meta); err != nil {
		return "", fmt.Errorf("catalog run %s: %w", runID, err)
	}
	return runID, nil
}

func (s *Store) SaveTrajectory(ctx context.Context, runID string, traj *analysis.Trajectory) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "x", "y", "z", "vx", "vy", "vz"}); err != nil {
		return err
	}
	for i, t := range traj.Times {
		row := []string{formatFloat(t)}
		for _, v := range traj.Positions[i] {
			row = append(row, formatFloat(v))
		}
		for _, v := range traj.Velocities[i] {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	meta.HasTrajectory = true
	if err := s.writeMetadata(meta); err != nil {
		return err
	}
	return s.catalog.MarkTrajectory(ctx, runID)
}

func (s *Store) SaveBlackHoles(ctx context.Context, runID string, holes []analysis.BlackHole) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	meta.BlackHoles = len(holes)
	if err := s.writeMetadata(meta); err != nil {
		return err
	}
	return s.catalog.ReplaceBlackHoles(ctx, runID, holes)
}

func (s *Store) List(ctx context.Context) ([]RunMetadata, error) {
	return s.catalog.Runs(ctx)
}

func (s *Store) BlackHoles(ctx context.Context, runID string) ([]analysis.BlackHole, error) {
	return s.catalog.BlackHoles(ctx, runID)
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadGravity(runID string) (*field.VectorField, error) {
	g, values, err := s.loadField(runID, gravityFile, 3)
	if err != nil {
		return nil, err
	}
	return field.VectorFrom(g, values)
}

func (s *Store) LoadMetric(runID string) (*field.TensorField, error) {
	g, values, err := s.loadField(runID, metricFile, field.Rank*field.Rank)
	if err != nil {
		return nil, err
	}
	return field.TensorFrom(g, values)
}

func (s *Store) LoadStressEnergy(runID string) (*field.TensorField, error) {
	g, values, err := s.loadField(runID, stressEnergyFile, field.Rank*field.Rank)
	if err != nil {
		return nil, err
	}
	return field.TensorFrom(g, values)
}

func (s *Store) LoadTrajectory(runID string) (*analysis.Trajectory, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}

	traj := &analysis.Trajectory{}
	for i, record := range records {
		if len(record) != 7 {
			return nil, fmt.Errorf("%s line %d: expected 7 columns, got %d", trajectoryFile, i+2, len(record))
		}
		vals, err := parseFloats(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", trajectoryFile, i+2, err)
		}
		traj.Times = append(traj.Times, vals[0])
		traj.Positions = append(traj.Positions, [3]float64{vals[1], vals[2], vals[3]})
		traj.Velocities = append(traj.Velocities, [3]float64{vals[4], vals[5], vals[6]})
	}
	return traj, nil
}

func (s *Store) writeMetadata(meta *RunMetadata) error {
	f, err := os.Create(filepath.Join(s.baseDir, meta.ID, metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func (s *Store) loadField(runID, name string, comps int) (field.Grid, []float64, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return field.Grid{}, nil, err
	}
	g, err := meta.Grid()
	if err != nil {
		return field.Grid{}, nil, err
	}

	records, err := readCSV(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return field.Grid{}, nil, err
	}
	if len(records) != g.Points() {
		return field.Grid{}, nil, fmt.Errorf("%s: expected %d rows, got %d", name, g.Points(), len(records))
	}

	values := make([]float64, g.Points()*comps)
	for line, record := range records {
		if len(record) != 3+comps {
			return field.Grid{}, nil, fmt.Errorf("%s line %d: expected %d columns, got %d", name, line+2, 3+comps, len(record))
		}
		i, err1 := strconv.Atoi(record[0])
		j, err2 := strconv.Atoi(record[1])
		k, err3 := strconv.Atoi(record[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return field.Grid{}, nil, fmt.Errorf("%s line %d: bad index", name, line+2)
		}
		if i < 0 || i >= g.N() || j < 0 || j >= g.N() || k < 0 || k >= g.N() {
			return field.Grid{}, nil, fmt.Errorf("%s line %d: index (%d,%d,%d) outside grid", name, line+2, i, j, k)
		}
		vals, err := parseFloats(record[3:])
		if err != nil {
			return field.Grid{}, nil, fmt.Errorf("%s line %d: %w", name, line+2, err)
		}
		copy(values[g.Index(i, j, k)*comps:], vals)
	}
	return g, values, nil
}
