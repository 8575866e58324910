package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/physics"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	st := New(t.TempDir())
	require.NoError(t, st.Init(context.Background()))
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func runGaussian(t *testing.T) (experiment.Config, *experiment.Result) {
	t.Helper()
	cfg := experiment.Config{N: 3, L: 1.0, Workers: 2}
	d, err := experiment.New(cfg)
	require.NoError(t, err)
	res, err := d.Run(context.Background(), physics.Gaussian(d.Grid(), 2.0, 0.3, 0.1))
	require.NoError(t, err)
	return cfg, res
}

func TestStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	cfg, res := runGaussian(t)

	runID, err := st.Save(ctx, "gaussian", cfg, res)
	require.NoError(t, err)
	_, err = uuid.Parse(runID)
	require.NoError(t, err, "run id should be a uuid")

	for _, name := range []string{metadataFile, gravityFile, metricFile, stressEnergyFile} {
		_, err := os.Stat(filepath.Join(st.baseDir, runID, name))
		require.NoError(t, err, name)
	}

	meta, err := st.Load(runID)
	require.NoError(t, err)
	require.Equal(t, "gaussian", meta.Matter)
	require.Equal(t, 3, meta.N)
	require.Equal(t, 1.0, meta.L)
	require.Contains(t, meta.TimingsMs, "gravity")

	grav, err := st.LoadGravity(runID)
	require.NoError(t, err)
	require.True(t, grav.Grid().Same(res.Grid))
	require.Equal(t, res.Gravity.Data(), grav.Data())

	metric, err := st.LoadMetric(runID)
	require.NoError(t, err)
	require.Equal(t, res.Metric.Data(), metric.Data())

	stress, err := st.LoadStressEnergy(runID)
	require.NoError(t, err)
	require.Equal(t, res.StressEnergy.Data(), stress.Data())
}

func TestStoreTrajectory(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	cfg, res := runGaussian(t)
	runID, err := st.Save(ctx, "gaussian", cfg, res)
	require.NoError(t, err)

	traj := &analysis.Trajectory{
		Times:      []float64{0, 0.5, 1},
		Positions:  [][3]float64{{0, 0, 0}, {0.1, 0, 0}, {0.2, 0.05, 0}},
		Velocities: [][3]float64{{0.2, 0, 0}, {0.2, 0.1, 0}, {0.2, 0.1, 0}},
	}
	require.NoError(t, st.SaveTrajectory(ctx, runID, traj))

	loaded, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	require.Equal(t, traj.Times, loaded.Times)
	require.Equal(t, traj.Positions, loaded.Positions)
	require.Equal(t, traj.Velocities, loaded.Velocities)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	require.True(t, meta.HasTrajectory)
}

func TestStoreCatalog(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	cfg, res := runGaussian(t)

	first, err := st.Save(ctx, "gaussian", cfg, res)
	require.NoError(t, err)
	second, err := st.Save(ctx, "vacuum", cfg, res)
	require.NoError(t, err)

	runs, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	ids := []string{runs[0].ID, runs[1].ID}
	require.ElementsMatch(t, []string{first, second}, ids)

	holes := []analysis.BlackHole{
		{Index: [3]int{1, 1, 1}, Position: [3]float64{0, 0, 0}, Curvature: 2.5, Mass: 0.3125},
		{Index: [3]int{0, 1, 2}, Position: [3]float64{-0.5, 0, 0.5}, Curvature: -1, Mass: 0.125},
	}
	require.NoError(t, st.SaveBlackHoles(ctx, first, holes))

	got, err := st.BlackHoles(ctx, first)
	require.NoError(t, err)
	require.Equal(t, holes, got)

	require.NoError(t, st.SaveBlackHoles(ctx, first, holes[:1]))
	got, err = st.BlackHoles(ctx, first)
	require.NoError(t, err)
	require.Len(t, got, 1)

	none, err := st.BlackHoles(ctx, second)
	require.NoError(t, err)
	require.Empty(t, none)

	runs, err = st.List(ctx)
	require.NoError(t, err)
	for _, r := range runs {
		if r.ID == first {
			require.Equal(t, 1, r.BlackHoles)
		}
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := newStore(t)

	_, err := st.Load("nope")
	require.ErrorIs(t, err, ErrRunNotFound)

	_, err = st.LoadGravity("nope")
	require.ErrorIs(t, err, ErrRunNotFound)

	err = st.SaveBlackHoles(context.Background(), "nope", nil)
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestCatalogUninitialized(t *testing.T) {
	c := NewCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	_, err := c.Runs(context.Background())
	require.Error(t, err)
	require.NoError(t, c.Close())
}

func TestLoadRejectsCorruptField(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	cfg, res := runGaussian(t)
	runID, err := st.Save(ctx, "gaussian", cfg, res)
	require.NoError(t, err)

	path := filepath.Join(st.baseDir, runID, gravityFile)
	require.NoError(t, os.WriteFile(path, []byte("i,j,k,gx,gy,gz\n0,0,0,1,2,3\n"), 0644))

	_, err = st.LoadGravity(runID)
	require.Error(t, err)
}
