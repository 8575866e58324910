package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/gravsim/internal/evaluate"
)

var (
	tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))
	tableHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff")).Padding(0, 1)
	tableCell   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ccccdd")).Padding(0, 1)
	tableHit    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")).Padding(0, 1)
)

// Table renders rows under headers with rounded borders.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorder).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeader
			}
			return tableCell
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// ConfusionTable renders cm with true classes as rows and predicted classes
// as columns, highlighting the diagonal. With normalized set, cells show
// row fractions instead of counts.
func ConfusionTable(cm *evaluate.Matrix, names []string, normalized bool) string {
	label := func(i int) string {
		if i < len(names) {
			return names[i]
		}
		return fmt.Sprint(i)
	}

	norm := cm.Normalize()
	headers := []string{"true \\ pred"}
	for j := 0; j < cm.K(); j++ {
		headers = append(headers, label(j))
	}
	rows := make([][]string, cm.K())
	for i := range rows {
		rows[i] = []string{label(i)}
		for j := 0; j < cm.K(); j++ {
			if normalized {
				rows[i] = append(rows[i], fmt.Sprintf("%.2f", norm.At(i, j)))
			} else {
				rows[i] = append(rows[i], fmt.Sprint(cm.At(i, j)))
			}
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorder).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow || col == 0:
				return tableHeader
			case row == col-1:
				return tableHit
			}
			return tableCell
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}
