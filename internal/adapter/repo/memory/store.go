// Package memory is the DSN-less artifact archive used by tests and demo
// runs. Save semantics mirror the gorm adapter: content-addressed,
// write-once, byte-identical re-saves accepted.
package memory

import (
	"bytes"
	"sync"

	"townreeve/internal/app/ports"
)

type Store struct {
	mu       sync.RWMutex
	handoffs map[string]ports.HandoffRecord
	results  map[string]ports.ResultRecord
	// resultOrder preserves insertion order for town feeds.
	resultOrder []string
}

func NewStore() *Store {
	return &Store{
		handoffs: make(map[string]ports.HandoffRecord),
		results:  make(map[string]ports.ResultRecord),
	}
}

func sameEnvelope(a, b []byte) bool {
	return bytes.Equal(a, b)
}
