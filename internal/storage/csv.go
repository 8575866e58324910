package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/san-kum/gravsim/internal/field"
)

var vectorHeader = []string{"gx", "gy", "gz"}

func tensorHeader(prefix string) []string {
	header := make([]string, 0, field.Rank*field.Rank)
	for a := 0; a < field.Rank; a++ {
		for b := 0; b < field.Rank; b++ {
			header = append(header, fmt.Sprintf("%s%d%d", prefix, a, b))
		}
	}
	return header
}

// writeFieldCSV writes one row per grid point: the i, j, k index followed
// by the point's components.
func writeFieldCSV(path string, g field.Grid, values []float64, header []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"i", "j", "k"}, header...)); err != nil {
		return err
	}

	comps := len(header)
	row := make([]string, 3+comps)
	for p := 0; p < g.Points(); p++ {
		i, j, k := g.Unindex(p)
		row[0], row[1], row[2] = strconv.Itoa(i), strconv.Itoa(j), strconv.Itoa(k)
		for c := 0; c < comps; c++ {
			row[3+c] = formatFloat(values[p*comps+c])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// readCSV returns the records after the header row.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header", path)
	}
	return records[1:], nil
}

func parseFloats(record []string) ([]float64, error) {
	vals := make([]float64, len(record))
	for i, s := range record {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
