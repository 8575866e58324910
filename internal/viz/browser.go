package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/field"
)

const (
	viewSlice = iota
	viewOrbit
)

var componentNames = []string{"|G|", "Gx", "Gy", "Gz"}

const ramp = " .:-=+*#%@"

// Browser is a Bubble Tea model for inspecting a stored gravitational
// field one z-slice at a time, and the run's test-particle orbit in 3D.
type Browser struct {
	title     string
	grid      field.Grid
	gravity   *field.VectorField
	magnitude *field.ScalarField
	traj      *analysis.Trajectory

	view      int
	slice     int
	component int
	theme     int

	camera        *Camera
	canvas        *Canvas
	width, height int
}

func NewBrowser(title string, gravity *field.VectorField, traj *analysis.Trajectory) *Browser {
	return &Browser{
		title:     title,
		grid:      gravity.Grid(),
		gravity:   gravity,
		magnitude: gravity.Norm(),
		traj:      traj,
		slice:     gravity.Grid().N() / 2,
		camera:    NewCamera(),
		canvas:    NewCanvas(60, 20),
		width:     80,
		height:    24,
	}
}

func (b *Browser) Init() tea.Cmd { return nil }

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.canvas = NewCanvas(max(msg.Width-4, 10), max(msg.Height-8, 5))
	case tea.KeyMsg:
		return b, b.handleKey(msg.String())
	}
	return b, nil
}

func (b *Browser) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "tab", "v":
		if b.traj != nil {
			b.view = (b.view + 1) % 2
		}
	case "t":
		b.theme = (b.theme + 1) % len(Themes)
	}

	if b.view == viewOrbit {
		switch key {
		case "left", "h":
			b.camera.RotateY(-0.1)
		case "right", "l":
			b.camera.RotateY(0.1)
		case "up", "k":
			b.camera.RotateX(-0.1)
		case "down", "j":
			b.camera.RotateX(0.1)
		case "+", "=":
			b.camera.ZoomIn()
		case "-":
			b.camera.ZoomOut()
		}
		return nil
	}

	switch key {
	case "up", "k":
		if b.slice < b.grid.N()-1 {
			b.slice++
		}
	case "down", "j":
		if b.slice > 0 {
			b.slice--
		}
	case "c":
		b.component = (b.component + 1) % len(componentNames)
	}
	return nil
}

// value is the selected component at grid point (i, j, k).
func (b *Browser) value(i, j, k int) float64 {
	if b.component == 0 {
		return b.magnitude.At(i, j, k)
	}
	return b.gravity.At(i, j, k)[b.component-1]
}

// bounds is the value range of the selected component over the whole grid,
// so that slices share one color scale.
func (b *Browser) bounds() (lo, hi float64) {
	n := b.grid.N()
	lo, hi = b.value(0, 0, 0), b.value(0, 0, 0)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				v := b.value(i, j, k)
				lo, hi = min(lo, v), max(hi, v)
			}
		}
	}
	return lo, hi
}

func (b *Browser) View() string {
	var s strings.Builder
	s.WriteString(Title.Render("gravsim") + "  " + Subtle.Render(b.title) + "\n")

	if b.view == viewOrbit {
		s.WriteString(b.viewOrbit())
		s.WriteString(KeyHint.Render("h/l j/k rotate  +/- zoom  tab slices  q quit") + "\n")
		return s.String()
	}
	s.WriteString(b.viewSlice())
	hint := "j/k slice  c component  t theme  q quit"
	if b.traj != nil {
		hint = "j/k slice  c component  t theme  tab orbit  q quit"
	}
	s.WriteString(KeyHint.Render(hint) + "\n")
	return s.String()
}

func (b *Browser) viewSlice() string {
	theme := Themes[b.theme]
	lo, hi := b.bounds()
	rng := hi - lo
	n := b.grid.N()

	var s strings.Builder
	fmt.Fprintf(&s, "%s  %s  %s\n\n",
		KeyValue("component", componentNames[b.component]),
		KeyValue("z", fmt.Sprintf("%d/%d (%.3f)", b.slice, n-1, b.grid.Coord(b.slice))),
		KeyValue("range", fmt.Sprintf("[%.3g, %.3g]", lo, hi)))

	profile := make([]float64, 0, n)
	for i := n - 1; i >= 0; i-- {
		s.WriteString("  ")
		for j := 0; j < n; j++ {
			norm := 0.0
			if rng > 0 {
				norm = (b.value(i, j, b.slice) - lo) / rng
			}
			ch := ramp[clamp(int(norm*float64(len(ramp)-1)+0.5), 0, len(ramp)-1)]
			style := lipgloss.NewStyle().Foreground(theme.Color(norm))
			s.WriteString(style.Render(strings.Repeat(string(ch), 2)))
		}
		s.WriteString("\n")
		profile = append(profile, b.value(i, n/2, b.slice))
	}

	s.WriteString("\n  " + MetricLabel.Render("profile along x ") + SparklineChart(profile, n) + "\n")
	s.WriteString("  " + Subtle.Render("theme "+theme.Name) + "\n")
	return s.String()
}

func (b *Browser) viewOrbit() string {
	b.canvas.Clear()
	scene := BoxWireframe()
	scene.Merge(TrajectoryWireframe(b.traj, b.grid.L()))
	Render3D(b.canvas, scene, b.camera)

	style := lipgloss.NewStyle().Foreground(Themes[b.theme].Color(0.8))
	var s strings.Builder
	fmt.Fprintf(&s, "%s  %s\n", KeyValue("points", fmt.Sprint(b.traj.Len())), KeyValue("zoom", fmt.Sprintf("%.2f", b.camera.Zoom)))
	s.WriteString(style.Render(b.canvas.String()))
	return s.String()
}

func RunBrowser(b *Browser) error {
	_, err := tea.NewProgram(b, tea.WithAltScreen()).Run()
	return err
}
