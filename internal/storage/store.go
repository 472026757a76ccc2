package storage

import (
	"errors"
	"fmt"
)

const (
	// RunsDir is the table of the experiment results.
	RunsDir = "runs"
	// WeightsDir is the table of the computed feature weights.
	WeightsDir = "weights"
)

var (
	// DefaultDir is the root of the file storage.
	DefaultDir = "file-storage"
)

// Shard creates a new storage implementation for the given shard.
type Shard func(shard string) (Persistence, error)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key of an experiment artifact.
type Key struct {
	Run   string `json:"run"`
	Split int    `json:"split"`
	Label string `json:"label"`
}

// Path returns the file name for the key.
func (k Key) Path() string {
	return fmt.Sprintf("%s_%v_%s", k.Run, k.Split, k.Label)
}

// Persistence stores and loads values by key.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}
