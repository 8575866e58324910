package evaluate

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

var (
	yTrue = []int{0, 0, 1, 1, 2, 2}
	yPred = []int{0, 1, 1, 1, 2, 0}
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

func TestConfusionMatrix(t *testing.T) {
	cm, err := ConfusionMatrix(yTrue, yPred, 3)
	if err != nil {
		t.Fatal(err)
	}

	want := [3][3]int{{1, 1, 0}, {0, 2, 0}, {1, 0, 1}}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if cm.At(i, j) != want[i][j] {
				t.Errorf("cm[%d][%d] = %d, want %d", i, j, cm.At(i, j), want[i][j])
			}
		}
	}
	if cm.Total() != 6 {
		t.Errorf("total = %d", cm.Total())
	}
	if cm.Predicted(1) != 3 || cm.Support(2) != 2 {
		t.Errorf("predicted(1)=%d support(2)=%d", cm.Predicted(1), cm.Support(2))
	}
}

func TestConfusionMatrixErrors(t *testing.T) {
	if _, err := ConfusionMatrix([]int{0}, []int{0, 1}, 2); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("length mismatch: got %v", err)
	}
	if _, err := ConfusionMatrix([]int{0}, []int{3}, 2); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("out of range label: got %v", err)
	}
	if _, err := ConfusionMatrix(nil, nil, 0); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("k=0: got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	cm, _ := ConfusionMatrix([]int{0, 0, 2}, []int{0, 1, 2}, 3)
	n := cm.Normalize()

	want := [3][3]float64{{0.5, 0.5, 0}, {0, 0, 0}, {0, 0, 1}}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !approx(n.At(i, j), want[i][j]) {
				t.Errorf("n[%d][%d] = %f, want %f", i, j, n.At(i, j), want[i][j])
			}
		}
	}
	if cm.At(0, 0) != 1 {
		t.Error("normalize must not modify the counts")
	}
}

func TestReport(t *testing.T) {
	cm, _ := ConfusionMatrix(yTrue, yPred, 3)
	r := Report(cm, []string{"dust", "gas", "hole"})

	tests := []struct {
		name                  string
		precision, recall, f1 float64
		support               int
	}{
		{"dust", 0.5, 0.5, 0.5, 2},
		{"gas", 2.0 / 3, 1, 0.8, 2},
		{"hole", 1, 0.5, 2.0 / 3, 2},
	}
	for i, tt := range tests {
		c := r.Classes[i]
		if c.Name != tt.name || c.Support != tt.support {
			t.Errorf("class %d: got %+v", i, c)
		}
		if !approx(c.Precision, tt.precision) || !approx(c.Recall, tt.recall) || !approx(c.F1, tt.f1) {
			t.Errorf("%s: got p=%f r=%f f1=%f", tt.name, c.Precision, c.Recall, c.F1)
		}
	}

	if !approx(r.Accuracy, 4.0/6) {
		t.Errorf("accuracy = %f", r.Accuracy)
	}
	if !approx(r.Macro.Precision, (0.5+2.0/3+1)/3) {
		t.Errorf("macro precision = %f", r.Macro.Precision)
	}
	if !approx(r.Weighted.Recall, r.Macro.Recall) {
		t.Errorf("equal supports: weighted recall %f != macro %f", r.Weighted.Recall, r.Macro.Recall)
	}

	out := r.String()
	for _, s := range []string{"precision", "dust", "accuracy", "macro avg", "weighted avg"} {
		if !strings.Contains(out, s) {
			t.Errorf("report missing %q:\n%s", s, out)
		}
	}
}

func TestReportEmptyClass(t *testing.T) {
	cm, _ := ConfusionMatrix([]int{0, 0}, []int{0, 0}, 2)
	r := Report(cm, nil)

	if r.Classes[1].Name != "1" {
		t.Errorf("fallback name = %q", r.Classes[1].Name)
	}
	if r.Classes[1].Precision != 0 || r.Classes[1].Recall != 0 || r.Classes[1].F1 != 0 {
		t.Errorf("empty class should score zero: %+v", r.Classes[1])
	}
	if r.Accuracy != 1 {
		t.Errorf("accuracy = %f", r.Accuracy)
	}
}
