package eval

import (
	"context"
	"fmt"
	"math"

	"github.com/drakos74/sigclass/internal/algo/classifier"
	"github.com/drakos74/sigclass/internal/algo/feature"
	"github.com/drakos74/sigclass/internal/algo/split"
	"github.com/drakos74/sigclass/internal/dataset"
	cmath "github.com/drakos74/sigclass/internal/math"
	"github.com/drakos74/sigclass/internal/metrics"
	"github.com/drakos74/sigclass/internal/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Options configures the evaluation of a single split.
type Options struct {
	Method     classifier.Method
	Classifier classifier.Options
	// Tiles is the number of consecutive test samples that make up one image.
	Tiles int
	// MaxTile decides an image by its most confident tile instead of the tile average.
	MaxTile bool
	// TileAreas classifies every tile against the training tiles of the same position.
	TileAreas bool
	// Rank counts a prediction as correct if the true class is within the top ranked classes.
	Rank int
	// Neighbours is the number of samples interpolated from, for continuous sets.
	Neighbours int
	Workers    int
	// Similarities computes the distances between the test images.
	Similarities bool
	// Observer records the classified images, the default observer if nil.
	Observer *metrics.Metrics
}

// ImageResult is the outcome for one test image.
type ImageResult struct {
	Path          string    `json:"path"`
	Class         int       `json:"class"`
	Predicted     int       `json:"predicted"`
	Correct       bool      `json:"correct"`
	Probabilities []float64 `json:"probabilities,omitempty"`
	Normalization float64   `json:"normalization"`
	Value         float64   `json:"value"`
	Interpolated  float64   `json:"interpolated"`
	Closest       string    `json:"closest"`
	Distance      float64   `json:"distance"`
	// Tiles are the predicted classes of the individual tiles.
	Tiles []int `json:"tiles,omitempty"`
	// Skipped is set when the image could not be evaluated.
	Skipped bool `json:"skipped,omitempty"`
}

// ClassAccuracy is the accuracy of one class.
type ClassAccuracy struct {
	Class    int     `json:"class"`
	Label    string  `json:"label"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
	// Skipped is set for classes without test images.
	Skipped bool `json:"skipped"`
}

// Correlation is the pearson correlation between the true and interpolated values.
type Correlation struct {
	R           float64 `json:"r"`
	P           float64 `json:"p"`
	MeanAbsDiff float64 `json:"mean_abs_diff"`
}

// DataSplit is the outcome of evaluating one train/test split.
// Matrices are indexed by class, index 0 holding the unknown class or the missing prediction.
type DataSplit struct {
	ID         int      `json:"id"`
	Method     string   `json:"method"`
	Continuous bool     `json:"continuous"`
	Tiles      int      `json:"tiles"`
	Labels     []string `json:"labels"`
	// TrainImages and TestImages are the image counts per class index.
	TrainImages []int `json:"train_images"`
	TestImages  []int `json:"test_images"`
	// Confusion counts the predictions per true class (rows) and predicted class (columns).
	Confusion [][]int `json:"confusion"`
	// ClassProbability is the mean marginal probability per true class (rows).
	ClassProbability [][]float64 `json:"class_probability"`
	// Similarity is the class probability normalised by its diagonal.
	Similarity       [][]float64      `json:"similarity"`
	ClassAccuracy    []ClassAccuracy  `json:"class_accuracy"`
	Correct          int              `json:"correct"`
	Total            int              `json:"total"`
	Accuracy         float64          `json:"accuracy"`
	PlusMinus        float64          `json:"plus_minus"`
	AvgClassAccuracy float64          `json:"avg_class_accuracy"`
	PValue           float64          `json:"p_value"`
	Pearson          *Correlation     `json:"pearson,omitempty"`
	TileAreaAccuracy []float64        `json:"tile_area_accuracy,omitempty"`
	Images           []ImageResult    `json:"images"`
	ImageDistances   [][]float64      `json:"image_distances,omitempty"`
	Ranking          *feature.Ranking `json:"ranking,omitempty"`
	Partition        *split.Partition `json:"partition,omitempty"`
	Warnings         []string         `json:"warnings"`
}

type evaluator struct {
	train      *dataset.TrainingSet
	areas      []*dataset.TrainingSet
	opts       Options
	classifier classifier.Classifier
	ip         *classifier.Interpolator
	warnings   *model.Warnings
}

// Test classifies every image of the test set against the training set and aggregates the results.
// Test classes are matched to the training classes by label.
func Test(ctx context.Context, train, test *dataset.TrainingSet, opts Options) (*DataSplit, error) {
	if opts.Tiles < 1 {
		opts.Tiles = 1
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Observer == nil {
		opts.Observer = metrics.Observer
	}
	if train.IsContinuous() != test.IsContinuous() {
		return nil, fmt.Errorf("testing %s set '%s' against %s set '%s'", test.Kind(), test.Name, train.Kind(), train.Name)
	}
	if train.Features() != test.Features() {
		return nil, fmt.Errorf("testing %d features against %d: %w", test.Features(), train.Features(), model.ErrFeatureCountMismatch)
	}

	// INIT
	e := &evaluator{
		train:    train,
		opts:     opts,
		warnings: model.NewWarnings(),
	}
	if train.IsContinuous() {
		e.ip = classifier.NewInterpolator(opts.Neighbours)
	} else {
		c, err := classifier.New(opts.Method, opts.Classifier)
		if err != nil {
			return nil, err
		}
		e.classifier = c
	}
	if opts.TileAreas && opts.Tiles > 1 {
		e.areas = train.SplitAreas(opts.Tiles)
	}
	if opts.Method == classifier.WND && !train.IsContinuous() {
		classifier.Prepare(train)
		for _, area := range e.areas {
			classifier.Prepare(area)
		}
	}

	// CLASSIFY
	groups, classes := e.groups(test)
	images := make([]ImageResult, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range groups {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			images[i] = e.classify(groups[i], classes[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("could not classify '%s': %w", test.Name, err)
	}

	// AGGREGATE
	ds := e.aggregate(test, images)
	if opts.Similarities {
		ds.ImageDistances = imageDistances(groups, train.Weights())
	}
	for _, img := range images {
		outcome := metrics.Unknown
		if img.Class != model.Unknown && !img.Skipped {
			outcome = metrics.Wrong
			if img.Correct {
				outcome = metrics.Correct
			}
		}
		opts.Observer.Classified(ds.Method, outcome)
	}
	log.Info().
		Str("train", train.Name).
		Str("test", test.Name).
		Str("method", ds.Method).
		Int("images", len(images)).
		Float64("accuracy", ds.Accuracy).
		Float64("p-value", ds.PValue).
		Msg("split")
	return ds, nil
}

// groups collects the tile groups of the test set, with the training class of every group.
func (e *evaluator) groups(test *dataset.TrainingSet) ([][]*model.Sample, []int) {
	groups := make([][]*model.Sample, 0)
	classes := make([]int, 0)
	t := e.opts.Tiles
	for tc := 0; tc <= test.Classes().Len(); tc++ {
		c := e.trainClass(test, tc)
		samples := test.ClassSamples(tc)
		if len(samples)%t != 0 {
			e.warnings.Add("class '%s' of '%s' has %d samples for %d tiles, the last %d are ignored", test.Classes().Label(tc), test.Name, len(samples), t, len(samples)%t)
		}
		for i := 0; i+t <= len(samples); i += t {
			groups = append(groups, samples[i:i+t])
			classes = append(classes, c)
		}
	}
	return groups, classes
}

func (e *evaluator) trainClass(test *dataset.TrainingSet, tc int) int {
	if tc == model.Unknown {
		return model.Unknown
	}
	if e.train.IsContinuous() {
		return model.ContinuousClass
	}
	label := test.Classes().Label(tc)
	if c, ok := e.train.Classes().Index(label); ok {
		return c
	}
	e.warnings.Add("test class '%s' is not defined in '%s'", label, e.train.Name)
	return model.Unknown
}

func (e *evaluator) set(tile int) *dataset.TrainingSet {
	if len(e.areas) > 0 {
		return e.areas[tile%len(e.areas)]
	}
	return e.train
}

func (e *evaluator) classify(tiles []*model.Sample, class int) ImageResult {
	img := ImageResult{
		Path:  tiles[0].Path,
		Class: class,
		Tiles: make([]int, len(tiles)),
	}
	if e.train.IsContinuous() {
		return e.interpolate(img, tiles)
	}
	k := e.train.Classes().Len()
	img.Probabilities = make([]float64, k+1)
	img.Distance = math.Inf(1)
	best := -1.0
	var closest *model.Sample
	for i, s := range tiles {
		r := e.classifier.Classify(e.set(i), s)
		img.Tiles[i] = r.Class
		if r.Closest != nil && r.Distance < img.Distance {
			img.Distance = r.Distance
			closest = r.Closest
		}
		if e.opts.MaxTile {
			if top := highest(r.Probabilities); top > best {
				best = top
				copy(img.Probabilities, r.Probabilities)
				img.Normalization = r.Normalization
			}
			continue
		}
		for c, p := range r.Probabilities {
			img.Probabilities[c] += p / float64(len(tiles))
		}
		img.Normalization += r.Normalization / float64(len(tiles))
	}
	if closest != nil {
		img.Closest = closest.Path
	} else {
		img.Distance = 0
	}
	for c := 1; c <= k; c++ {
		if img.Probabilities[c] > 0 && (img.Predicted == 0 || img.Probabilities[c] > img.Probabilities[img.Predicted]) {
			img.Predicted = c
		}
	}
	if img.Predicted == 0 && class != model.Unknown {
		e.warnings.Add("no training sample qualified for image '%s'", img.Path)
	}
	img.Correct = e.correct(img)
	if class != model.Unknown {
		img.Value = e.train.Classes().Value(class)
	}
	if e.train.Classes().Numeric() {
		for c := 1; c <= k; c++ {
			img.Interpolated += img.Probabilities[c] * e.train.Classes().Value(c)
		}
	}
	return img
}

func (e *evaluator) interpolate(img ImageResult, tiles []*model.Sample) ImageResult {
	n := 0
	img.Distance = math.Inf(1)
	for i, s := range tiles {
		img.Value += s.Value / float64(len(tiles))
		r, err := e.ip.Interpolate(e.set(i), s)
		if err != nil {
			e.warnings.Add("could not interpolate tile %d of '%s': %v", i, img.Path, err)
			continue
		}
		img.Interpolated += r.Value
		n++
		if r.Distance < img.Distance {
			img.Distance = r.Distance
			img.Closest = r.Closest.Path
		}
		img.Tiles[i] = model.ContinuousClass
	}
	if n == 0 {
		img.Skipped = true
		img.Distance = 0
		return img
	}
	img.Interpolated /= float64(n)
	img.Predicted = model.ContinuousClass
	return img
}

// correct checks if the true class is within the top ranked predictions.
func (e *evaluator) correct(img ImageResult) bool {
	if img.Class == model.Unknown || img.Predicted == model.Unknown {
		return false
	}
	if img.Predicted == img.Class {
		return true
	}
	if e.opts.Rank <= 1 {
		return false
	}
	p := img.Probabilities[img.Class]
	if p <= 0 {
		return false
	}
	higher := 0
	for c := 1; c < len(img.Probabilities); c++ {
		if c != img.Class && img.Probabilities[c] > p {
			higher++
		}
	}
	return higher < e.opts.Rank
}

func (e *evaluator) aggregate(test *dataset.TrainingSet, images []ImageResult) *DataSplit {
	classes := e.train.Classes()
	k := classes.Len()
	t := e.opts.Tiles
	ds := &DataSplit{
		Method:           string(e.opts.Method),
		Continuous:       e.train.IsContinuous(),
		Tiles:            t,
		Labels:           classes.Labels(),
		TrainImages:      make([]int, k+1),
		TestImages:       make([]int, k+1),
		Confusion:        intMatrix(k + 1),
		ClassProbability: floatMatrix(k + 1),
		Similarity:       floatMatrix(k + 1),
		ClassAccuracy:    make([]ClassAccuracy, 0, k),
		Images:           images,
	}
	if ds.Continuous {
		ds.Method = "interpolation"
	}
	for c := 0; c <= k; c++ {
		ds.TrainImages[c] = len(e.train.ClassSamples(c)) / t
	}
	tileCorrect := make([]int, t)
	known := 0
	for _, img := range images {
		if img.Class == model.Unknown || img.Skipped {
			continue
		}
		known++
		ds.TestImages[img.Class]++
		ds.Confusion[img.Class][img.Predicted]++
		ds.Total++
		if img.Correct {
			ds.Correct++
		}
		for c, p := range img.Probabilities {
			ds.ClassProbability[img.Class][c] += p
		}
		for i, tc := range img.Tiles {
			if tc == img.Class {
				tileCorrect[i]++
			}
		}
	}

	stats := make([]float64, 0, k)
	for c := 1; c <= k; c++ {
		ca := ClassAccuracy{
			Class: c,
			Label: classes.Label(c),
			Total: ds.TestImages[c],
		}
		if ca.Total == 0 {
			ca.Skipped = true
			if !ds.Continuous {
				e.warnings.Add("class '%s' has no test images", ca.Label)
			}
			ds.ClassAccuracy = append(ds.ClassAccuracy, ca)
			continue
		}
		if ds.Continuous {
			ds.ClassAccuracy = append(ds.ClassAccuracy, ca)
			continue
		}
		for _, img := range images {
			if img.Class == c && !img.Skipped && img.Correct {
				ca.Correct++
			}
		}
		ca.Accuracy = float64(ca.Correct) / float64(ca.Total)
		stats = append(stats, ca.Accuracy)
		ds.ClassAccuracy = append(ds.ClassAccuracy, ca)
		for b := range ds.ClassProbability[c] {
			ds.ClassProbability[c][b] /= float64(ca.Total)
		}
		diagonal := ds.ClassProbability[c][c]
		if diagonal > 0 {
			for b := range ds.Similarity[c] {
				ds.Similarity[c][b] = ds.ClassProbability[c][b] / diagonal
			}
		}
	}

	if ds.Total > 0 {
		ds.Accuracy = float64(ds.Correct) / float64(ds.Total)
	}
	for _, a := range stats {
		ds.AvgClassAccuracy += a / float64(len(stats))
		if d := math.Abs(a - ds.Accuracy); d > ds.PlusMinus {
			ds.PlusMinus = d
		}
	}
	if !ds.Continuous {
		ds.PValue = cmath.BinomialPValue(ds.Correct, ds.Total, k)
	}
	if ds.Continuous || classes.Numeric() {
		x := make([]float64, 0, known)
		y := make([]float64, 0, known)
		for _, img := range images {
			if img.Class == model.Unknown || img.Skipped {
				continue
			}
			x = append(x, img.Value)
			y = append(y, img.Interpolated)
		}
		r, p := cmath.Pearson(x, y)
		ds.Pearson = &Correlation{
			R:           r,
			P:           p,
			MeanAbsDiff: cmath.MeanAbsDiff(x, y),
		}
		if ds.Continuous {
			ds.Accuracy = ds.Pearson.R
		}
	}
	if e.opts.TileAreas && t > 1 && !ds.Continuous && known > 0 {
		ds.TileAreaAccuracy = make([]float64, t)
		for i, n := range tileCorrect {
			ds.TileAreaAccuracy[i] = float64(n) / float64(known)
		}
	}
	ds.Warnings = e.warnings.Messages()
	return ds
}

// imageDistances computes the weighted distance between the signatures of every two test images,
// averaged over their tile pairs. Off-diagonal distances are scaled into [0,1],
// the closest pair of images getting 0 and the most distant pair 1.
func imageDistances(groups [][]*model.Sample, weights []float64) [][]float64 {
	d := floatMatrix(len(groups))
	lowest, top := math.Inf(1), 0.0
	for i := range groups {
		for j := i + 1; j < len(groups); j++ {
			v := 0.0
			for _, a := range groups[i] {
				for _, b := range groups[j] {
					v += classifier.Euclidean(a.Values, b.Values, weights)
				}
			}
			v /= float64(len(groups[i]) * len(groups[j]))
			d[i][j] = v
			d[j][i] = v
			if v > 0 && v < lowest {
				lowest = v
			}
		}
	}
	if math.IsInf(lowest, 1) {
		return d
	}
	for i := range d {
		for j := range d[i] {
			if i == j {
				continue
			}
			d[i][j] = math.Max(d[i][j]-lowest, 0)
			top = math.Max(top, d[i][j])
		}
	}
	if top > 0 {
		for i := range d {
			for j := range d[i] {
				d[i][j] /= top
			}
		}
	}
	return d
}

func highest(vv []float64) float64 {
	m := 0.0
	for _, v := range vv {
		if v > m {
			m = v
		}
	}
	return m
}

func intMatrix(n int) [][]int {
	m := make([][]int, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	return m
}

func floatMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}
