package views

import (
	"time"

	"github.com/shopspring/decimal"

	"revloans/core"
)

// Loan loan view
type Loan struct {
	core.Loan
	AmountDisplay     decimal.Decimal `json:"amount_display"`
	CollateralDisplay decimal.Decimal `json:"collateral_display"`
	ExpiresAt         time.Time       `json:"expires_at"`
	Expired           bool            `json:"expired"`
	Closed            bool            `json:"closed"`
}

// SourceTotal borrowed amount outstanding against one funding source.
type SourceTotal struct {
	core.LoanSource
	Borrowed core.Amount `json:"borrowed"`
}

// RevnetTotals aggregate debt and collateral of one revnet.
type RevnetTotals struct {
	RevnetID   uint64         `json:"revnet_id"`
	Collateral core.Amount    `json:"collateral"`
	Loans      int64          `json:"loans"`
	Sources    []*SourceTotal `json:"sources"`
}
