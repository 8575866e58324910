package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/analysis"
)

const (
	PlotWidth  = 80
	PlotHeight = 12
)

// Downsample keeps at most n evenly spaced samples of data.
func Downsample(data []float64, n int) []float64 {
	if n <= 0 || len(data) <= n {
		return data
	}
	out := make([]float64, n)
	step := float64(len(data)-1) / float64(n-1)
	for i := range out {
		out[i] = data[int(float64(i)*step+0.5)]
	}
	return out
}

func PlotSeries(data []float64, caption string) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(Downsample(data, PlotWidth),
		asciigraph.Height(PlotHeight),
		asciigraph.Width(PlotWidth),
		asciigraph.Caption(caption),
	)
}

// PlotTrajectory draws x, y and z against sample index in one chart.
func PlotTrajectory(traj *analysis.Trajectory) string {
	if traj == nil || traj.Len() == 0 {
		return ""
	}
	series := make([][]float64, 3)
	for axis := range series {
		series[axis] = Downsample(traj.Axis(axis), PlotWidth)
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(PlotHeight),
		asciigraph.Width(PlotWidth),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue),
		asciigraph.SeriesLegends("x", "y", "z"),
		asciigraph.Caption("test particle position"),
	)
}

func PlotSpectrum(s analysis.Spectrum, caption string) string {
	if len(s.Power) < 2 {
		return ""
	}
	// skip the DC bin; the mean is removed before the transform
	return PlotSeries(s.Power[1:], caption)
}
