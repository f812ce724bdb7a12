package dto

import (
	"gudang/internal/core/types"
	"gudang/internal/domain/cashcount"
)

// OpnameCountRequest is one counted denomination.
type OpnameCountRequest struct {
	Value int64 `json:"value"`
	Count int64 `json:"count"`
}

// CreateOpnameRequest submits a cash count.
type CreateOpnameRequest struct {
	Date         string               `json:"date" binding:"required"`
	StartingCash int64                `json:"startingCash"`
	SystemSales  int64                `json:"systemSales"`
	NonCashSales int64                `json:"nonCashSales"`
	Counts       []OpnameCountRequest `json:"counts"`
}

// ToInput maps the request to the service input, stamping the recorder.
func (r CreateOpnameRequest) ToInput(recordedBy string) (cashcount.OpnameInput, error) {
	date, err := ParseDate("date", r.Date)
	if err != nil {
		return cashcount.OpnameInput{}, err
	}

	input := cashcount.OpnameInput{
		Date:         date,
		RecordedBy:   recordedBy,
		StartingCash: types.Rupiah(r.StartingCash),
		SystemSales:  types.Rupiah(r.SystemSales),
		NonCashSales: types.Rupiah(r.NonCashSales),
		Counts:       make([]cashcount.CountInput, 0, len(r.Counts)),
	}
	for _, c := range r.Counts {
		input.Counts = append(input.Counts, cashcount.CountInput{
			Value: types.Rupiah(c.Value),
			Count: c.Count,
		})
	}
	return input, nil
}

// OpnameView is an opname with its derived reconciliation fields.
type OpnameView struct {
	*cashcount.Opname
	TotalPhysical    types.Money `json:"totalPhysical"`
	CashSales        types.Money `json:"cashSales"`
	ExpectedInDrawer types.Money `json:"expectedInDrawer"`
	Difference       types.Money `json:"difference"`
	Verdict          string      `json:"verdict"`
}

// FromOpname maps an opname plus its computed reconciliation.
func FromOpname(o *cashcount.Opname) OpnameView {
	return OpnameView{
		Opname:           o,
		TotalPhysical:    o.TotalPhysical(),
		CashSales:        o.CashSales(),
		ExpectedInDrawer: o.ExpectedInDrawer(),
		Difference:       o.Difference(),
		Verdict:          o.Verdict(),
	}
}

// FromOpnames maps an opname list.
func FromOpnames(opnames []cashcount.Opname) []OpnameView {
	out := make([]OpnameView, 0, len(opnames))
	for i := range opnames {
		out = append(out, FromOpname(&opnames[i]))
	}
	return out
}
