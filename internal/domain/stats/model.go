package stats

import "github.com/shopspring/decimal"

// BranchRate is one row of the collection-rate report.
type BranchRate struct {
	RamaID         string          `json:"ramaId"`
	Rama           string          `json:"rama"`
	TotalExpected  decimal.Decimal `json:"totalExpected"`
	TotalCollected decimal.Decimal `json:"totalCollected"`
	CollectionRate decimal.Decimal `json:"collectionRate"`
}
