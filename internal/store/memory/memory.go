// Package memory provides an in-memory Store, used in tests and when the
// server runs without a database.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/iwvelando/payout-simulator/internal/config"
	"github.com/iwvelando/payout-simulator/internal/store"
)

// Store keeps records in save order behind a read-write lock.
type Store struct {
	mu         sync.RWMutex
	structures []store.StructureRecord
	profiles   []store.ProfileRecord
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

var _ store.Store = (*Store)(nil)

// SaveStructure stores a copy of s under a new id.
func (m *Store) SaveStructure(_ context.Context, s config.StructureConfig) (store.StructureRecord, error) {
	rec := store.StructureRecord{ID: store.NewID(), CreatedAt: store.Now(), Structure: cloneStructure(s)}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.structures = append(m.structures, rec)
	return rec, nil
}

// GetStructure returns the structure saved under id.
func (m *Store) GetStructure(_ context.Context, id string) (store.StructureRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.structures {
		if rec.ID == id {
			rec.Structure = cloneStructure(rec.Structure)
			return rec, nil
		}
	}
	return store.StructureRecord{}, fmt.Errorf("structure %s: %w", id, store.ErrNotFound)
}

// ListStructures returns every saved structure in save order.
func (m *Store) ListStructures(_ context.Context) ([]store.StructureRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]store.StructureRecord, len(m.structures))
	for i, rec := range m.structures {
		rec.Structure = cloneStructure(rec.Structure)
		out[i] = rec
	}
	return out, nil
}

// DeleteStructure removes the structure saved under id.
func (m *Store) DeleteStructure(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, rec := range m.structures {
		if rec.ID == id {
			m.structures = append(m.structures[:i], m.structures[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("structure %s: %w", id, store.ErrNotFound)
}

// SaveProfile stores a copy of p under a new id.
func (m *Store) SaveProfile(_ context.Context, p config.ProfileConfig) (store.ProfileRecord, error) {
	rec := store.ProfileRecord{ID: store.NewID(), CreatedAt: store.Now(), Profile: cloneProfile(p)}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, rec)
	return rec, nil
}

// GetProfile returns the profile saved under id.
func (m *Store) GetProfile(_ context.Context, id string) (store.ProfileRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.profiles {
		if rec.ID == id {
			rec.Profile = cloneProfile(rec.Profile)
			return rec, nil
		}
	}
	return store.ProfileRecord{}, fmt.Errorf("profile %s: %w", id, store.ErrNotFound)
}

// ListProfiles returns every saved profile in save order.
func (m *Store) ListProfiles(_ context.Context) ([]store.ProfileRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]store.ProfileRecord, len(m.profiles))
	for i, rec := range m.profiles {
		rec.Profile = cloneProfile(rec.Profile)
		out[i] = rec
	}
	return out, nil
}

// DeleteProfile removes the profile saved under id.
func (m *Store) DeleteProfile(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, rec := range m.profiles {
		if rec.ID == id {
			m.profiles = append(m.profiles[:i], m.profiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("profile %s: %w", id, store.ErrNotFound)
}

// Close is a no-op.
func (m *Store) Close() error {
	return nil
}

func cloneStructure(s config.StructureConfig) config.StructureConfig {
	out := s
	out.Commission = make([]config.CommissionTier, len(s.Commission))
	for i, t := range s.Commission {
		t.UpTo = clonePtr(t.UpTo)
		out.Commission[i] = t
	}
	out.Quarterly = cloneBonus(s.Quarterly)
	out.Continuity = cloneBonus(s.Continuity)
	out.QuarterlyWeights = append([]float64(nil), s.QuarterlyWeights...)
	return out
}

func cloneBonus(tiers []config.BonusTier) []config.BonusTier {
	out := make([]config.BonusTier, len(tiers))
	for i, t := range tiers {
		t.UpTo = clonePtr(t.UpTo)
		out[i] = t
	}
	return out
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneProfile(p config.ProfileConfig) config.ProfileConfig {
	out := p
	out.QuarterlyAchievements = append([]float64(nil), p.QuarterlyAchievements...)
	out.MonthlySales = append([]float64(nil), p.MonthlySales...)
	return out
}
