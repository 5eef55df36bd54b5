// Package store persists named trees so they can be shared between a CLI and
// a server, or simply survive between sessions.
//
// Two backends are provided:
//   - file: JSON files in a config directory, for CLI usage
//   - mongo: a MongoDB collection, for multi-instance deployments
//
// Records are addressed by a user-chosen name. Saving under an existing name
// replaces the previous record.
package store

import (
	"context"
	"time"

	apperrors "github.com/fumen-tools/fumetree/pkg/errors"
	"github.com/fumen-tools/fumetree/pkg/pagetree"
)

// Record is a named tree with bookkeeping metadata.
type Record struct {
	Name      string        `json:"name" bson:"_id"`
	Tree      pagetree.Tree `json:"tree" bson:"tree"`
	Comment   string        `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for tree persistence backends.
type Store interface {
	// Save stores a record under its name, replacing any previous record.
	Save(ctx context.Context, rec Record) error

	// Load retrieves a record by name. A missing name yields a
	// TREE_NOT_FOUND error.
	Load(ctx context.Context, name string) (Record, error)

	// List returns the names of all stored records, sorted.
	List(ctx context.Context) ([]string, error)

	// Delete removes a record. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// notFound builds the canonical missing-record error.
func notFound(name string) error {
	return apperrors.New(apperrors.ErrCodeTreeNotFound, "no stored tree named %q", name)
}
