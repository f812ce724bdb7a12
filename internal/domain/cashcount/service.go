package cashcount

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gudang/internal/core/id"
	"gudang/internal/core/numerator"
	"gudang/internal/core/types"
	"gudang/pkg/logger"
)

// OpnameNumberPrefix is the numbering prefix for cash opnames.
const OpnameNumberPrefix = "OP"

// Service manages cash opnames.
type Service struct {
	repo      OpnameRepository
	numerator numerator.Generator
}

// NewService creates the cash count service.
func NewService(repo OpnameRepository, gen numerator.Generator) *Service {
	return &Service{
		repo:      repo,
		numerator: gen,
	}
}

// CountInput is one counted denomination.
type CountInput struct {
	Value types.Rupiah `json:"value"`
	Count int64        `json:"count"`
}

// OpnameInput is a submitted cash count.
type OpnameInput struct {
	Date         time.Time    `json:"date"`
	RecordedBy   string       `json:"-"`
	StartingCash types.Rupiah `json:"startingCash"`
	SystemSales  types.Rupiah `json:"systemSales"`
	NonCashSales types.Rupiah `json:"nonCashSales"`
	Counts       []CountInput `json:"counts"`
}

// SubmitOpname records a completed cash count. Zero counts are dropped;
// an empty drawer is still a valid opname.
func (s *Service) SubmitOpname(ctx context.Context, input OpnameInput) (*Opname, error) {
	opname := NewOpname(input.Date, input.RecordedBy)
	opname.StartingCash = input.StartingCash
	opname.SystemSales = input.SystemSales
	opname.NonCashSales = input.NonCashSales
	for _, c := range input.Counts {
		if c.Count == 0 {
			continue
		}
		opname.Counts = append(opname.Counts, DenominationCount{Value: c.Value, Count: c.Count})
	}

	if err := opname.Validate(ctx); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(OpnameNumberPrefix), opname.Date)
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	opname.Number = number

	if err := s.repo.Create(ctx, opname); err != nil {
		return nil, fmt.Errorf("create opname: %w", err)
	}

	logger.Info(ctx, "cash opname recorded",
		"id", opname.ID,
		"number", opname.Number,
		"physical", opname.TotalPhysical(),
		"expected", opname.ExpectedInDrawer(),
		"verdict", opname.Verdict())

	return opname, nil
}

// GetOpname returns one opname.
func (s *Service) GetOpname(ctx context.Context, opnameID id.ID) (*Opname, error) {
	return s.repo.GetByID(ctx, opnameID)
}

// ListOpnames returns all opnames newest-first by date, then creation.
func (s *Service) ListOpnames(ctx context.Context) ([]Opname, error) {
	opnames, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list opnames: %w", err)
	}
	sort.Slice(opnames, func(i, j int) bool {
		if !opnames[i].Date.Equal(opnames[j].Date) {
			return opnames[i].Date.After(opnames[j].Date)
		}
		return opnames[i].CreatedAt.After(opnames[j].CreatedAt)
	})
	return opnames, nil
}

// DeleteOpname removes an opname. Opnames are standalone snapshots, so
// deletion needs no lock checks.
func (s *Service) DeleteOpname(ctx context.Context, opnameID id.ID) error {
	if _, err := s.repo.GetByID(ctx, opnameID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, opnameID); err != nil {
		return fmt.Errorf("delete opname: %w", err)
	}
	logger.Info(ctx, "cash opname deleted", "id", opnameID)
	return nil
}
