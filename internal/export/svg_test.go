package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	svg := CanvasToSVG(c, 2, "#00ff00")
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="8" height="8"`) {
		t.Errorf("unexpected size:\n%s", svg)
	}
	if CanvasToSVG(nil, 1, "#fff") != "" {
		t.Error("nil canvas should give empty output")
	}
}

func TestProjectionToSVG(t *testing.T) {
	traj := &analysis.Trajectory{Positions: [][3]float64{{0, 0, 0}, {1, 1, 0}, {2, 0, 0}}}
	proj := analysis.Project(traj, 0, 1)

	svg := ProjectionToSVG(proj, 120, 120, "#ff00ff")
	if !strings.Contains(svg, `d="M10.0,110.0 L60.0,10.0 L110.0,110.0"`) {
		t.Errorf("unexpected path:\n%s", svg)
	}

	single := analysis.Project(&analysis.Trajectory{Positions: [][3]float64{{0, 0, 0}}}, 0, 1)
	if ProjectionToSVG(single, 10, 10, "#fff") != "" {
		t.Error("a single point has no path")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	if err := WriteFile(path, "<svg/>"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("got %q, %v", data, err)
	}
	if err := WriteFile(path, ""); err == nil {
		t.Error("expected error for empty svg")
	}
}
