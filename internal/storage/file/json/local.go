package json

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/drakos74/sigclass/internal/storage"
)

// LocalShard creates in-memory json storage shards.
// Shards of the same name share their storage.
func LocalShard() storage.Shard {
	shards := make(map[string]*LocalStorage)
	var mutex sync.Mutex
	return func(shard string) (storage.Persistence, error) {
		mutex.Lock()
		defer mutex.Unlock()
		if s, ok := shards[shard]; ok {
			return s, nil
		}
		s := NewLocalStorage()
		shards[shard] = s
		return s, nil
	}
}

// LocalStorage keeps the json encoded values in memory.
type LocalStorage struct {
	mutex sync.RWMutex
	blobs map[storage.Key][]byte
}

// NewLocalStorage creates a new in-memory storage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		blobs: make(map[storage.Key][]byte),
	}
}

func (l *LocalStorage) Store(k storage.Key, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal value for %s: %w", k.Path(), err)
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.blobs[k] = b
	return nil
}

func (l *LocalStorage) Load(k storage.Key, value interface{}) error {
	l.mutex.RLock()
	b, ok := l.blobs[k]
	l.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("no value for %s: %w", k.Path(), storage.NotFoundErr)
	}
	if err := json.Unmarshal(b, value); err != nil {
		return fmt.Errorf("could not unmarshal value for %s: %v: %w", k.Path(), err, storage.CouldNotLoadErr)
	}
	return nil
}

// Keys returns the stored keys, ordered by their path.
func (l *LocalStorage) Keys() []storage.Key {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	kk := make([]storage.Key, 0, len(l.blobs))
	for k := range l.blobs {
		kk = append(kk, k)
	}
	sort.Slice(kk, func(i, j int) bool {
		return kk[i].Path() < kk[j].Path()
	})
	return kk
}
