package memory

import (
	"context"
	"sync"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/domain/cashcount"
)

// OpnameRepo implements cashcount.OpnameRepository over process memory.
type OpnameRepo struct {
	mu      sync.RWMutex
	opnames map[id.ID]*cashcount.Opname
}

// NewOpnameRepo creates an empty in-memory opname repository.
func NewOpnameRepo() *OpnameRepo {
	return &OpnameRepo{opnames: make(map[id.ID]*cashcount.Opname)}
}

var _ cashcount.OpnameRepository = (*OpnameRepo)(nil)

// Create implements cashcount.OpnameRepository.
func (r *OpnameRepo) Create(_ context.Context, opname *cashcount.Opname) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.opnames[opname.ID]; exists {
		return apperror.NewDuplicate("cash opname", "id", opname.ID.String())
	}
	r.opnames[opname.ID] = copyOpname(opname)
	return nil
}

// GetByID implements cashcount.OpnameRepository.
func (r *OpnameRepo) GetByID(_ context.Context, opnameID id.ID) (*cashcount.Opname, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opname, ok := r.opnames[opnameID]
	if !ok {
		return nil, apperror.NewNotFound("cash opname", opnameID)
	}
	return copyOpname(opname), nil
}

// List implements cashcount.OpnameRepository.
func (r *OpnameRepo) List(_ context.Context) ([]cashcount.Opname, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]cashcount.Opname, 0, len(r.opnames))
	for _, opname := range r.opnames {
		out = append(out, *copyOpname(opname))
	}
	return out, nil
}

// Delete implements cashcount.OpnameRepository.
func (r *OpnameRepo) Delete(_ context.Context, opnameID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.opnames[opnameID]; !ok {
		return apperror.NewNotFound("cash opname", opnameID)
	}
	delete(r.opnames, opnameID)
	return nil
}

func copyOpname(opname *cashcount.Opname) *cashcount.Opname {
	cp := *opname
	cp.Counts = make([]cashcount.DenominationCount, len(opname.Counts))
	copy(cp.Counts, opname.Counts)
	return &cp
}
