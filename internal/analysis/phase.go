package analysis

import (
	"strings"
)

// Projection holds a trajectory projected onto two spatial axes.
type Projection struct {
	XAxis, YAxis int
	Points       []struct{ X, Y float64 }
}

// Project returns the (xAxis, yAxis) projection of the trajectory positions,
// or nil for an axis outside 0..2.
func Project(traj *Trajectory, xAxis, yAxis int) *Projection {
	if xAxis < 0 || xAxis > 2 || yAxis < 0 || yAxis > 2 {
		return nil
	}

	proj := &Projection{
		XAxis:  xAxis,
		YAxis:  yAxis,
		Points: make([]struct{ X, Y float64 }, len(traj.Positions)),
	}
	for i, p := range traj.Positions {
		proj.Points[i].X = p[xAxis]
		proj.Points[i].Y = p[yAxis]
	}
	return proj
}

// ProjectionToASCII renders the projection on a width x height canvas,
// drawing the axes when they cross the visible area.
func ProjectionToASCII(proj *Projection, width, height int) string {
	if proj == nil || len(proj.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := proj.Points[0].X, proj.Points[0].X
	minY, maxY := proj.Points[0].Y, proj.Points[0].Y
	for _, p := range proj.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range proj.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
