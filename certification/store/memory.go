// Package store provides certification.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/fleet-engine/certification"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	records    map[string]certification.Record
	categories certification.Categories
}

var _ certification.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		records:    make(map[string]certification.Record),
		categories: make(certification.Categories),
	}
}

// ListCertifications returns all records ordered by pilot, then check code.
func (m *Memory) ListCertifications(_ context.Context) ([]certification.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedLocked(func(certification.Record) bool { return true }), nil
}

// ListCertificationsByPilot returns one pilot's records.
func (m *Memory) ListCertificationsByPilot(_ context.Context, pilotID string) ([]certification.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedLocked(func(r certification.Record) bool { return r.PilotID == pilotID }), nil
}

func (m *Memory) GetCertification(_ context.Context, id string) (*certification.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, certification.ErrRecordNotFound
	}
	return &rec, nil
}

func (m *Memory) SaveCertification(_ context.Context, rec certification.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	return nil
}

// ListCategories returns a copy so callers cannot mutate the store.
func (m *Memory) ListCategories(_ context.Context) (certification.Categories, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(certification.Categories, len(m.categories))
	for k, v := range m.categories {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) SaveCategory(_ context.Context, cat certification.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[cat.Code] = cat
	return nil
}

func (m *Memory) sortedLocked(keep func(certification.Record) bool) []certification.Record {
	var out []certification.Record
	for _, rec := range m.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PilotID != out[j].PilotID {
			return out[i].PilotID < out[j].PilotID
		}
		if out[i].CheckCode != out[j].CheckCode {
			return out[i].CheckCode < out[j].CheckCode
		}
		return out[i].ID < out[j].ID
	})
	return out
}
