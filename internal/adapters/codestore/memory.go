package codestore

import (
	"context"
	"sync"
	"time"

	"jend_services/internal/domain"

	"jend_services/internal/adapters/observability"
)

// Memory is the default ResetCodeStore: a mutex-guarded map keyed by code.
// Entries do not survive a process restart.
type Memory struct {
	mu sync.RWMutex
	m  map[string]domain.ResetCode
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]domain.ResetCode)}
}

func (s *Memory) Put(ctx context.Context, rc domain.ResetCode) error {
	s.mu.Lock()
	s.m[rc.Code] = rc
	s.mu.Unlock()
	observability.ObserveLedger("memory", "set")
	return nil
}

func (s *Memory) Get(ctx context.Context, code string) (domain.ResetCode, bool, error) {
	s.mu.RLock()
	rc, ok := s.m[code]
	s.mu.RUnlock()
	if !ok {
		observability.ObserveLedger("memory", "miss")
		return domain.ResetCode{}, false, nil
	}
	observability.ObserveLedger("memory", "hit")
	return rc, true, nil
}

func (s *Memory) Del(ctx context.Context, code string) error {
	s.mu.Lock()
	delete(s.m, code)
	s.mu.Unlock()
	observability.ObserveLedger("memory", "del")
	return nil
}

// SweepExpired drops every entry issued more than ttl ago.
func (s *Memory) SweepExpired(ctx context.Context, ttl time.Duration) error {
	cutoff := time.Now().Add(-ttl)
	s.mu.Lock()
	for code, rc := range s.m {
		if rc.IssuedAt.Before(cutoff) {
			delete(s.m, code)
		}
	}
	s.mu.Unlock()
	return nil
}

// Len reports the number of live entries. Used by tests and metrics.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
