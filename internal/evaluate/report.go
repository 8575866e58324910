package evaluate

import (
	"fmt"
	"strings"
)

type ClassMetrics struct {
	Name      string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

type Averages struct {
	Precision float64
	Recall    float64
	F1        float64
}

type ClassificationReport struct {
	Classes  []ClassMetrics
	Accuracy float64
	Macro    Averages
	Weighted Averages
	Total    int
}

// Report computes per-class precision, recall and F1 from cm. Undefined
// ratios (no predictions or no samples for a class) are reported as 0.
// names may be shorter than cm.K(); missing names fall back to the index.
func Report(cm *Matrix, names []string) *ClassificationReport {
	r := &ClassificationReport{
		Classes: make([]ClassMetrics, cm.K()),
		Total:   cm.Total(),
	}

	correct := 0
	for c := 0; c < cm.K(); c++ {
		tp := cm.At(c, c)
		correct += tp

		cls := ClassMetrics{Name: fmt.Sprint(c), Support: cm.Support(c)}
		if c < len(names) {
			cls.Name = names[c]
		}
		cls.Precision = ratio(tp, cm.Predicted(c))
		cls.Recall = ratio(tp, cls.Support)
		if s := cls.Precision + cls.Recall; s > 0 {
			cls.F1 = 2 * cls.Precision * cls.Recall / s
		}
		r.Classes[c] = cls

		r.Macro.Precision += cls.Precision
		r.Macro.Recall += cls.Recall
		r.Macro.F1 += cls.F1
		w := float64(cls.Support)
		r.Weighted.Precision += w * cls.Precision
		r.Weighted.Recall += w * cls.Recall
		r.Weighted.F1 += w * cls.F1
	}

	k := float64(cm.K())
	r.Macro.Precision /= k
	r.Macro.Recall /= k
	r.Macro.F1 /= k
	if r.Total > 0 {
		n := float64(r.Total)
		r.Weighted.Precision /= n
		r.Weighted.Recall /= n
		r.Weighted.F1 /= n
	}
	r.Accuracy = ratio(correct, r.Total)
	return r
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func (r *ClassificationReport) String() string {
	width := len("weighted avg")
	for _, c := range r.Classes {
		width = max(width, len(c.Name))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%*s %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		fmt.Fprintf(&sb, "%*s %9.2f %9.2f %9.2f %9d\n", width, c.Name, c.Precision, c.Recall, c.F1, c.Support)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%*s %9s %9s %9.2f %9d\n", width, "accuracy", "", "", r.Accuracy, r.Total)
	fmt.Fprintf(&sb, "%*s %9.2f %9.2f %9.2f %9d\n", width, "macro avg", r.Macro.Precision, r.Macro.Recall, r.Macro.F1, r.Total)
	fmt.Fprintf(&sb, "%*s %9.2f %9.2f %9.2f %9d\n", width, "weighted avg", r.Weighted.Precision, r.Weighted.Recall, r.Weighted.F1, r.Total)
	return sb.String()
}
