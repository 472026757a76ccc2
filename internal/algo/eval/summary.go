package eval

import (
	"math"

	"github.com/drakos74/sigclass/internal/algo/feature"
	"github.com/drakos74/sigclass/internal/buffer"
	cmath "github.com/drakos74/sigclass/internal/math"
	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/evaluation"
)

// ClassSummary is the accuracy of one class across all splits.
type ClassSummary struct {
	Class     int            `json:"class"`
	Label     string         `json:"label"`
	Correct   int            `json:"correct"`
	Total     int            `json:"total"`
	Accuracy  float64        `json:"accuracy"`
	StdDev    float64        `json:"std_dev"`
	Interval  cmath.Interval `json:"interval"`
	Precision float64        `json:"precision"`
	Recall    float64        `json:"recall"`
	F1        float64        `json:"f1"`
	Skipped   bool           `json:"skipped"`
}

// Summary aggregates the outcome of several splits.
type Summary struct {
	Splits     int      `json:"splits"`
	Method     string   `json:"method"`
	Continuous bool     `json:"continuous"`
	Labels     []string `json:"labels"`
	Correct    int      `json:"correct"`
	Total      int      `json:"total"`
	// Accuracy is the average accuracy of the splits.
	Accuracy float64 `json:"accuracy"`
	StdDev   float64 `json:"std_dev"`
	// Interval is the 95% confidence interval of the accuracy, over all tested images.
	Interval         cmath.Interval   `json:"interval"`
	PValue           float64          `json:"p_value"`
	PlusMinus        float64          `json:"plus_minus"`
	AvgClassAccuracy float64          `json:"avg_class_accuracy"`
	Classes          []ClassSummary   `json:"classes"`
	Confusion        [][]int          `json:"confusion"`
	ClassProbability [][]float64      `json:"class_probability"`
	Similarity       [][]float64      `json:"similarity"`
	Pearson          *Correlation     `json:"pearson,omitempty"`
	TileAreaAccuracy []float64        `json:"tile_area_accuracy,omitempty"`
	Ranking          *feature.Ranking `json:"ranking,omitempty"`
	Report           string           `json:"report,omitempty"`
	Warnings         []string         `json:"warnings"`
}

// Summarize aggregates the given splits.
// All splits are expected to come from the same training set.
func Summarize(splits []*DataSplit) *Summary {
	sum := &Summary{
		Splits:   len(splits),
		Warnings: make([]string, 0),
	}
	if len(splits) == 0 {
		return sum
	}
	first := splits[0]
	k := len(first.Labels)
	sum.Method = first.Method
	sum.Continuous = first.Continuous
	sum.Labels = first.Labels
	sum.Confusion = intMatrix(k + 1)
	sum.ClassProbability = floatMatrix(k + 1)
	sum.Similarity = floatMatrix(k + 1)

	accuracy := buffer.NewStats()
	classes := buffer.NewStatsCollector()
	pearson := buffer.NewStatsCollector()
	counts := make([][]int, k+1)
	for c := range counts {
		counts[c] = make([]int, k+1)
	}
	correct := make([]int, k+1)
	total := make([]int, k+1)
	rankings := make([]*feature.Ranking, 0, len(splits))
	var tiles []float64
	tileSplits := 0

	for _, ds := range splits {
		sum.Correct += ds.Correct
		sum.Total += ds.Total
		accuracy.Push(ds.Accuracy)
		for i := range ds.Confusion {
			for j, n := range ds.Confusion[i] {
				sum.Confusion[i][j] += n
			}
		}
		for _, ca := range ds.ClassAccuracy {
			if ca.Skipped {
				continue
			}
			correct[ca.Class] += ca.Correct
			total[ca.Class] += ca.Total
			classes.Push(ca.Label, ca.Accuracy)
			for j := range ds.ClassProbability[ca.Class] {
				sum.ClassProbability[ca.Class][j] += ds.ClassProbability[ca.Class][j]
				sum.Similarity[ca.Class][j] += ds.Similarity[ca.Class][j]
				counts[ca.Class][j]++
			}
		}
		if ds.Pearson != nil {
			pearson.Push("r", ds.Pearson.R)
			pearson.Push("p", ds.Pearson.P)
			pearson.Push("diff", ds.Pearson.MeanAbsDiff)
		}
		if len(ds.TileAreaAccuracy) > 0 {
			if tiles == nil {
				tiles = make([]float64, len(ds.TileAreaAccuracy))
			}
			for i, a := range ds.TileAreaAccuracy {
				if i < len(tiles) {
					tiles[i] += a
				}
			}
			tileSplits++
		}
		if ds.Ranking != nil {
			rankings = append(rankings, ds.Ranking)
		}
		sum.Warnings = append(sum.Warnings, ds.Warnings...)
	}

	for i := range sum.ClassProbability {
		for j := range sum.ClassProbability[i] {
			if n := counts[i][j]; n > 0 {
				sum.ClassProbability[i][j] /= float64(n)
				sum.Similarity[i][j] /= float64(n)
			}
		}
	}

	sum.Accuracy = accuracy.Avg()
	sum.StdDev = accuracy.SampleStDev()
	if !sum.Continuous {
		acc := 0.0
		if sum.Total > 0 {
			acc = float64(sum.Correct) / float64(sum.Total)
		}
		sum.Interval = cmath.Confidence(acc, sum.Total)
		sum.PValue = cmath.BinomialPValue(sum.Correct, sum.Total, k)
	}

	cm := confusion(sum.Labels, sum.Confusion)
	n := 0
	for c := 1; c <= k; c++ {
		cs := ClassSummary{
			Class:   c,
			Label:   sum.Labels[c-1],
			Correct: correct[c],
			Total:   total[c],
		}
		if cs.Total == 0 || sum.Continuous {
			cs.Skipped = cs.Total == 0
			sum.Classes = append(sum.Classes, cs)
			continue
		}
		cs.Accuracy = float64(cs.Correct) / float64(cs.Total)
		if s, ok := classes.Get(cs.Label); ok {
			cs.StdDev = s.SampleStDev()
		}
		// per class intervals follow the method of the overall interval
		cs.Interval = cmath.ConfidenceInterval(cs.Accuracy, cs.Total, sum.Interval.Method)
		cs.Precision = finite(evaluation.GetPrecision(cs.Label, cm))
		cs.Recall = finite(evaluation.GetRecall(cs.Label, cm))
		cs.F1 = finite(evaluation.GetF1Score(cs.Label, cm))
		sum.AvgClassAccuracy += cs.Accuracy
		n++
		sum.Classes = append(sum.Classes, cs)
	}
	if n > 0 {
		sum.AvgClassAccuracy /= float64(n)
	}
	for _, cs := range sum.Classes {
		if cs.Skipped || sum.Continuous {
			continue
		}
		if d := math.Abs(cs.Accuracy - sum.Accuracy); d > sum.PlusMinus {
			sum.PlusMinus = d
		}
	}

	if pearson.Size() > 0 {
		r, _ := pearson.Get("r")
		p, _ := pearson.Get("p")
		d, _ := pearson.Get("diff")
		sum.Pearson = &Correlation{
			R:           r.Avg(),
			P:           p.Avg(),
			MeanAbsDiff: d.Avg(),
		}
	}
	for i := range tiles {
		tiles[i] /= float64(tileSplits)
	}
	sum.TileAreaAccuracy = tiles
	if len(rankings) > 0 {
		sum.Ranking = feature.Merge(rankings...)
	}
	if !sum.Continuous && sum.Total > 0 {
		sum.Report = evaluation.GetSummary(cm)
	}

	log.Info().
		Str("method", sum.Method).
		Int("splits", sum.Splits).
		Int("correct", sum.Correct).
		Int("total", sum.Total).
		Float64("accuracy", sum.Accuracy).
		Float64("std-dev", sum.StdDev).
		Str("interval", cmath.Format(sum.Interval.Lower())+" - "+cmath.Format(sum.Interval.Upper())).
		Float64("p-value", sum.PValue).
		Msg("summary")
	return sum
}

// confusion converts the confusion counts of the known classes into a labelled confusion matrix.
// Predictions of no class are left out.
func confusion(labels []string, counts [][]int) evaluation.ConfusionMatrix {
	cm := make(evaluation.ConfusionMatrix)
	for i, actual := range labels {
		cm[actual] = make(map[string]int)
		for j, predicted := range labels {
			cm[actual][predicted] = counts[i+1][j+1]
		}
	}
	return cm
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
