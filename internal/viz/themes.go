package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a three-stop color ramp for heatmaps plus the chrome colors.
type Theme struct {
	Name  string
	Low   [3]int
	Mid   [3]int
	High  [3]int
	Text  lipgloss.Color
	Muted lipgloss.Color
}

var (
	ThemeInferno = Theme{
		Name:  "inferno",
		Low:   [3]int{0x10, 0x08, 0x30},
		Mid:   [3]int{0xc0, 0x30, 0x50},
		High:  [3]int{0xff, 0xe0, 0x40},
		Text:  lipgloss.Color("#ffffff"),
		Muted: lipgloss.Color("#666688"),
	}

	ThemeOcean = Theme{
		Name:  "ocean",
		Low:   [3]int{0x00, 0x1a, 0x33},
		Mid:   [3]int{0x00, 0x77, 0xbe},
		High:  [3]int{0xe0, 0xf0, 0xff},
		Text:  lipgloss.Color("#e0f0ff"),
		Muted: lipgloss.Color("#4488aa"),
	}

	ThemeRetroGreen = Theme{
		Name:  "retro",
		Low:   [3]int{0x00, 0x11, 0x00},
		Mid:   [3]int{0x00, 0x99, 0x00},
		High:  [3]int{0x88, 0xff, 0x88},
		Text:  lipgloss.Color("#00ff00"),
		Muted: lipgloss.Color("#005500"),
	}

	Themes = []Theme{
		ThemeInferno,
		ThemeOcean,
		ThemeRetroGreen,
	}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeInferno
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Color maps norm in [0, 1] onto the theme's ramp. Values outside the
// range are clamped.
func (t Theme) Color(norm float64) lipgloss.Color {
	norm = max(0, min(norm, 1))
	lo, hi, f := t.Low, t.Mid, norm*2
	if norm > 0.5 {
		lo, hi, f = t.Mid, t.High, (norm-0.5)*2
	}
	var c [3]int
	for i := range c {
		c[i] = clamp(int(float64(lo[i])+f*float64(hi[i]-lo[i])+0.5), 0, 255)
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
