package fit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/drakos74/sigclass/internal/dataset"
	cmath "github.com/drakos74/sigclass/internal/math"
	"github.com/drakos74/sigclass/internal/model"
	"github.com/drakos74/sigclass/internal/storage"
	"github.com/rs/zerolog/log"
)

// Extension is the file extension of the dataset files.
const Extension = ".fit"

// DefaultLabel is the class label of continuous sets read without one.
const DefaultLabel = "value"

const maxLine = 16 * 1024 * 1024

// Write writes the set in the text dataset format.
// The header holds the class, feature and sample counts, followed by the feature names and
// the class labels, the unknown one first. Every sample is a line of values ending with its
// class index, or its value for continuous sets, followed by a line with its path.
func Write(w io.Writer, ts *dataset.TrainingSet) error {
	bw := bufio.NewWriter(w)
	classes := ts.Classes()
	fmt.Fprintf(bw, "%d\n%d\n%d\n", classes.Len(), ts.Features(), ts.Len())
	for _, name := range ts.Names() {
		fmt.Fprintf(bw, "%s\n", name)
	}
	for c := 0; c <= classes.Len(); c++ {
		fmt.Fprintf(bw, "%s\n", classes.Label(c))
	}
	for _, s := range ts.Samples() {
		for _, v := range s.Values {
			bw.WriteString(formatValue(v))
			bw.WriteByte(' ')
		}
		if ts.IsContinuous() {
			fmt.Fprintf(bw, "%f\n", s.Value)
		} else {
			fmt.Fprintf(bw, "%d\n", s.Class)
		}
		fmt.Fprintf(bw, "%s\n", s.Path)
	}
	return bw.Flush()
}

func formatValue(v float64) string {
	if cmath.IsInteger(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return fmt.Sprintf("%.5e", v)
}

type reader struct {
	scanner *bufio.Scanner
	line    int
}

func (r *reader) next() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	r.line++
	return strings.TrimRight(r.scanner.Text(), "\r\n"), nil
}

func (r *reader) count() (int, error) {
	l, err := r.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(l))
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid count '%s': %w", r.line, l, err)
	}
	return n, nil
}

// Read reads a set in the text dataset format.
// Continuous sets take the last number of every sample line as its value.
func Read(rd io.Reader, name string, continuous bool) (*dataset.TrainingSet, error) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 64*1024), maxLine)
	r := &reader{scanner: scanner}

	nClasses, err := r.count()
	if err != nil {
		return nil, fmt.Errorf("could not read class count: %w", err)
	}
	nFeatures, err := r.count()
	if err != nil {
		return nil, fmt.Errorf("could not read feature count: %w", err)
	}
	nSamples, err := r.count()
	if err != nil {
		return nil, fmt.Errorf("could not read sample count: %w", err)
	}
	names := make([]string, nFeatures)
	for i := range names {
		if names[i], err = r.next(); err != nil {
			return nil, fmt.Errorf("could not read feature name %d: %w", i, err)
		}
	}

	// blank lines e.g. the unknown class label are skipped
	line := ""
	for line == "" && err == nil {
		line, err = r.next()
	}
	labels := make([]string, nClasses)
	for i := range labels {
		if err != nil {
			return nil, fmt.Errorf("could not read class label %d: %w", i, err)
		}
		labels[i] = line
		line, err = r.next()
	}
	if err != nil && nSamples > 0 {
		return nil, fmt.Errorf("could not read samples: %w", err)
	}
	ts, err := newSet(name, names, labels, continuous)
	if err != nil {
		return nil, err
	}

	for i := 0; i < nSamples; i++ {
		fields := strings.Fields(line)
		if len(fields) != nFeatures+1 {
			return nil, fmt.Errorf("line %d: %d fields for %d features: %w", r.line, len(fields), nFeatures, model.ErrFeatureCountMismatch)
		}
		values := make([]float64, nFeatures)
		for j := 0; j < nFeatures; j++ {
			if values[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
				return nil, fmt.Errorf("line %d: invalid value '%s': %w", r.line, fields[j], err)
			}
		}
		last := fields[nFeatures]
		path, err := r.next()
		if err != nil && err != io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("could not read path of sample %d: %w", i, err)
		}
		var s *model.Sample
		if continuous {
			v, err := strconv.ParseFloat(last, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid value '%s': %w", r.line, last, err)
			}
			s = model.NewSample(path, model.ContinuousClass, values...).WithValue(v)
		} else {
			c, err := strconv.Atoi(last)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid class '%s': %w", r.line, last, err)
			}
			s = model.NewSample(path, c, values...)
		}
		if err := ts.AddSample(s); err != nil {
			return nil, fmt.Errorf("could not add sample %d: %w", i, err)
		}
		if i < nSamples-1 {
			if line, err = r.next(); err != nil {
				return nil, fmt.Errorf("could not read sample %d: %w", i+1, err)
			}
		}
	}
	log.Debug().Str("set", name).Int("classes", nClasses).Int("features", nFeatures).Int("samples", nSamples).Msg("read")
	return ts, nil
}

func newSet(name string, names, labels []string, continuous bool) (*dataset.TrainingSet, error) {
	if continuous {
		label := DefaultLabel
		if len(labels) > 0 {
			label = labels[0]
		}
		return dataset.NewContinuous(name, names, label), nil
	}
	ts := dataset.New(name, names)
	for _, l := range labels {
		if _, err := ts.AddClass(l); err != nil {
			return nil, fmt.Errorf("could not add class '%s': %w", l, err)
		}
	}
	return ts, nil
}

// Save writes the set into the given file.
func Save(path string, ts *dataset.TrainingSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", path, err)
	}
	defer f.Close()
	if err := Write(f, ts); err != nil {
		return fmt.Errorf("could not write '%s': %w", path, err)
	}
	return nil
}

// Load reads the set from the given file.
func Load(path string, continuous bool) (*dataset.TrainingSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open '%s': %v: %w", path, err, storage.NotFoundErr)
	}
	defer f.Close()
	ts, err := Read(f, strings.TrimSuffix(filepath.Base(path), Extension), continuous)
	if err != nil {
		return nil, fmt.Errorf("could not read '%s': %v: %w", path, err, storage.CouldNotLoadErr)
	}
	return ts, nil
}
