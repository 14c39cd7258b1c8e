// Package store defines persistence of named payout structures and
// performance profiles.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/payout-simulator/internal/config"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// StructureRecord is a saved payout structure.
type StructureRecord struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"createdAt"`
	Structure config.StructureConfig `json:"structure"`
}

// ProfileRecord is a saved performance profile.
type ProfileRecord struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"createdAt"`
	Profile   config.ProfileConfig `json:"profile"`
}

// Store persists structures and profiles. Saving never replaces an existing
// record; two saves of the same name produce two records. Lists are returned
// in save order.
type Store interface {
	SaveStructure(ctx context.Context, s config.StructureConfig) (StructureRecord, error)
	GetStructure(ctx context.Context, id string) (StructureRecord, error)
	ListStructures(ctx context.Context) ([]StructureRecord, error)
	DeleteStructure(ctx context.Context, id string) error

	SaveProfile(ctx context.Context, p config.ProfileConfig) (ProfileRecord, error)
	GetProfile(ctx context.Context, id string) (ProfileRecord, error)
	ListProfiles(ctx context.Context) ([]ProfileRecord, error)
	DeleteProfile(ctx context.Context, id string) error

	Close() error
}

// NewID returns a fresh record id.
func NewID() string {
	return uuid.NewString()
}

// Now returns the creation timestamp for new records.
func Now() time.Time {
	return time.Now().UTC()
}
