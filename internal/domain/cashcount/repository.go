package cashcount

import (
	"context"

	"gudang/internal/core/id"
)

// OpnameRepository defines opname storage operations.
type OpnameRepository interface {
	// Create stores a new opname with its counts atomically.
	Create(ctx context.Context, opname *Opname) error

	// GetByID retrieves one opname with counts, or NOT_FOUND.
	GetByID(ctx context.Context, opnameID id.ID) (*Opname, error)

	// List retrieves all opnames with counts.
	List(ctx context.Context) ([]Opname, error)

	// Delete removes an opname and its counts.
	Delete(ctx context.Context, opnameID id.ID) error
}
