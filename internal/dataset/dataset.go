// Package dataset loads labelled feature tables and persists classifier
// parameters.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// LabelColumn is the header name of the class column.
const LabelColumn = "label"

var (
	ErrNoLabelColumn = errors.New("no label column")
	ErrUnknownLabel  = errors.New("unknown label")
)

// Dataset is a feature table with integer-encoded labels. Labels index
// into Classes, which is sorted.
type Dataset struct {
	Columns  []string
	Features [][]float64
	Labels   []int
	Classes  []string
}

func (d *Dataset) Len() int { return len(d.Labels) }

// Matrix returns the features as a rows x columns matrix. It is nil for a
// dataset without rows or feature columns.
func (d *Dataset) Matrix() *mat.Dense {
	if len(d.Features) == 0 || len(d.Columns) == 0 {
		return nil
	}
	m := mat.NewDense(len(d.Features), len(d.Columns), nil)
	for i, row := range d.Features {
		m.SetRow(i, row)
	}
	return m
}

// Encode maps label strings to their class indices.
func (d *Dataset) Encode(labels []string) ([]int, error) {
	out := make([]int, len(labels))
	for i, l := range labels {
		idx := sort.SearchStrings(d.Classes, l)
		if idx == len(d.Classes) || d.Classes[idx] != l {
			return nil, fmt.Errorf("%q at row %d: %w", l, i, ErrUnknownLabel)
		}
		out[i] = idx
	}
	return out, nil
}

// LoadCSV reads a CSV with a header row. Every column except "label" must
// be numeric.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func ReadCSV(r io.Reader) (*Dataset, error) {
	header, records, err := readTable(r)
	if err != nil {
		return nil, err
	}
	labelIdx := column(header, LabelColumn)
	if labelIdx < 0 {
		return nil, ErrNoLabelColumn
	}

	ds := &Dataset{Features: make([][]float64, 0, len(records))}
	for i, name := range header {
		if i != labelIdx {
			ds.Columns = append(ds.Columns, name)
		}
	}

	raw := make([]string, 0, len(records))
	for line, record := range records {
		row := make([]float64, 0, len(ds.Columns))
		for i, s := range record {
			if i == labelIdx {
				continue
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line+2, header[i], err)
			}
			row = append(row, v)
		}
		ds.Features = append(ds.Features, row)
		raw = append(raw, record[labelIdx])
	}

	ds.Classes = classes(raw)
	ds.Labels, err = ds.Encode(raw)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// LoadLabels reads only the label column of a CSV, e.g. a predictions file.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, records, err := readTable(f)
	if err != nil {
		return nil, err
	}
	idx := column(header, LabelColumn)
	if idx < 0 {
		return nil, ErrNoLabelColumn
	}
	labels := make([]string, len(records))
	for i, record := range records {
		labels[i] = record[idx]
	}
	return labels, nil
}

// SaveModel writes v as indented JSON.
func SaveModel(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func LoadModel(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func readTable(r io.Reader) ([]string, [][]string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, errors.New("empty csv: missing header")
	}
	return records[0], records[1:], nil
}

func column(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func classes(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0)
	for _, l := range labels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}
