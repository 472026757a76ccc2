package model

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Warnings collects the non-fatal problems found while processing a dataset.
type Warnings struct {
	mutex    *sync.Mutex
	messages []string
}

// NewWarnings creates a new warnings buffer.
func NewWarnings() *Warnings {
	return &Warnings{
		mutex:    new(sync.Mutex),
		messages: make([]string, 0),
	}
}

// Add logs the warning and keeps it in the buffer.
func (w *Warnings) Add(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Warn().Msg(msg)
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.messages = append(w.messages, msg)
}

// Messages returns the collected warnings.
func (w *Warnings) Messages() []string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	mm := make([]string, len(w.messages))
	copy(mm, w.messages)
	return mm
}

// Len returns the number of collected warnings.
func (w *Warnings) Len() int {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return len(w.messages)
}
