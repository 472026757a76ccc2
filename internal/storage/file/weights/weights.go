package weights

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/drakos74/sigclass/internal/dataset"
	"github.com/drakos74/sigclass/internal/model"
	"github.com/drakos74/sigclass/internal/storage"
	"github.com/rs/zerolog/log"
)

// Write writes one 'weight name' line per feature.
func Write(w io.Writer, weights []float64, names []string) error {
	if len(weights) != len(names) {
		return fmt.Errorf("%d weights for %d names: %w", len(weights), len(names), model.ErrFeatureCountMismatch)
	}
	bw := bufio.NewWriter(w)
	for i, weight := range weights {
		fmt.Fprintf(bw, "%f %s\n", weight, names[i])
	}
	return bw.Flush()
}

// Read reads the weights and feature names, skipping empty lines.
func Read(r io.Reader) ([]float64, []string, error) {
	weights := make([]float64, 0)
	names := make([]string, 0)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		l := strings.TrimSpace(scanner.Text())
		if l == "" {
			continue
		}
		parts := strings.SplitN(l, " ", 2)
		w, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: invalid weight '%s': %w", line, parts[0], err)
		}
		name := ""
		if len(parts) > 1 {
			name = parts[1]
		}
		weights = append(weights, w)
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return weights, names, nil
}

// Save writes the weights of the set into the given file.
func Save(path string, ts *dataset.TrainingSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", path, err)
	}
	defer f.Close()
	return Write(f, ts.Weights(), ts.Names())
}

// Load reads the weights from the given file.
func Load(path string) ([]float64, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open '%s': %v: %w", path, err, storage.NotFoundErr)
	}
	defer f.Close()
	weights, names, err := Read(f)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read '%s': %v: %w", path, err, storage.CouldNotLoadErr)
	}
	return weights, names, nil
}

// Apply loads the weights from the file and blends them into the set.
// A zero factor replaces the weights, a positive one adds and a negative one subtracts them.
// It returns the euclidean distance between the previous and the loaded weights.
func Apply(ts *dataset.TrainingSet, path string, factor float64) (float64, error) {
	weights, _, err := Load(path)
	if err != nil {
		return 0, err
	}
	d, err := ts.BlendWeights(weights, factor)
	if err != nil {
		return 0, fmt.Errorf("could not apply '%s': %w", path, err)
	}
	log.Info().Str("set", ts.Name).Str("file", path).Float64("factor", factor).Float64("distance", d).Msg("weights")
	return d, nil
}
