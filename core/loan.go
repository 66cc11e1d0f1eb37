package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

const (
	// RefCurrency reference currency every revnet's backing is valued in
	RefCurrency = "USD"
	// RefDecimals decimal precision of reference-currency values
	RefDecimals = 18
)

// Loan a collateralized position against a revnet's treasury. IDs are
// assigned by a strictly increasing counter and never reused, so
// creation time is non-decreasing in ID order; the liquidation sweep
// depends on that.
type Loan struct {
	ID                uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	RevnetID          uint64    `sql:"index:loan_revnet_idx" json:"revnet_id"`
	Terminal          string    `sql:"size:66;index:loan_revnet_idx" json:"terminal"`
	Token             string    `sql:"size:66;index:loan_revnet_idx" json:"token"`
	Amount            Amount    `sql:"type:varchar(80)" json:"amount"`
	Collateral        Amount    `sql:"type:varchar(80)" json:"collateral"`
	PrepaidFeePercent uint64    `sql:"default:0" json:"prepaid_fee_percent"`
	PrepaidDuration   int64     `sql:"default:0" json:"prepaid_duration"`
	CreatedAt         time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	Version           int64     `sql:"default:0" json:"version"`
}

// Source the (terminal, token) pair the loan was funded from.
func (l *Loan) Source() *LoanSource {
	return &LoanSource{
		RevnetID: l.RevnetID,
		Terminal: l.Terminal,
		Token:    l.Token,
	}
}

// Closed a loan is closed exactly when both amount and collateral are
// zero; the ownership token is burned at that point.
func (l *Loan) Closed() bool {
	return l.Amount.IsZero() && l.Collateral.IsZero()
}

// PrepaidWindow the fee-free window as a duration.
func (l *Loan) PrepaidWindow() time.Duration {
	return time.Duration(l.PrepaidDuration) * time.Second
}

// LoanSource a funding source a revnet has lent from. Each revnet keeps
// a deduplicated list ordered by first use.
type LoanSource struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	RevnetID  uint64    `sql:"unique_index:source_idx" json:"revnet_id"`
	Terminal  string    `sql:"size:66;unique_index:source_idx" json:"terminal"`
	Token     string    `sql:"size:66;unique_index:source_idx" json:"token"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// RevnetDebt outstanding borrowed amount per (revnet, terminal, token),
// maintained incrementally on every loan mutation.
type RevnetDebt struct {
	ID       uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	RevnetID uint64 `sql:"unique_index:debt_idx" json:"revnet_id"`
	Terminal string `sql:"size:66;unique_index:debt_idx" json:"terminal"`
	Token    string `sql:"size:66;unique_index:debt_idx" json:"token"`
	Amount   Amount `sql:"type:varchar(80)" json:"amount"`
}

// RevnetCollateral outstanding pledged collateral per revnet.
type RevnetCollateral struct {
	ID         uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	RevnetID   uint64 `sql:"unique_index:collateral_idx" json:"revnet_id"`
	Collateral Amount `sql:"type:varchar(80)" json:"collateral"`
}

// ILoanStore loan store interface. Mutations take the transaction
// handle of the enclosing operation so a whole adjustment commits or
// aborts as one.
type ILoanStore interface {
	Create(ctx context.Context, tx *db.DB, loan *Loan) error
	Find(ctx context.Context, id uint64) (*Loan, error)
	Update(ctx context.Context, tx *db.DB, loan *Loan) error
	ListFrom(ctx context.Context, fromID uint64, limit int) ([]*Loan, error)
	CountOf(ctx context.Context, revnetID uint64) (int64, error)

	RegisterSource(ctx context.Context, tx *db.DB, source *LoanSource) (bool, error)
	SourcesOf(ctx context.Context, revnetID uint64) ([]*LoanSource, error)

	AddBorrowed(ctx context.Context, tx *db.DB, source *LoanSource, delta Amount) error
	SubBorrowed(ctx context.Context, tx *db.DB, source *LoanSource, delta Amount) error
	AddCollateral(ctx context.Context, tx *db.DB, revnetID uint64, delta Amount) error
	SubCollateral(ctx context.Context, tx *db.DB, revnetID uint64, delta Amount) error

	TotalBorrowedFrom(ctx context.Context, revnetID uint64, terminal, token string) (Amount, error)
	TotalCollateralOf(ctx context.Context, revnetID uint64) (Amount, error)

	// SumBorrowedFrom and SumCollateralOf recompute the aggregates from
	// the loan records themselves; they must agree with the counters at
	// every point between operations.
	SumBorrowedFrom(ctx context.Context, revnetID uint64, terminal, token string) (Amount, error)
	SumCollateralOf(ctx context.Context, revnetID uint64) (Amount, error)
}

// OpenRequest parameters for opening a position.
type OpenRequest struct {
	Caller            string      `json:"caller"`
	RevnetID          uint64      `json:"revnet_id"`
	Source            *LoanSource `json:"source"`
	Amount            Amount      `json:"amount"`
	Collateral        Amount      `json:"collateral"`
	Beneficiary       string      `json:"beneficiary"`
	PrepaidFeePercent uint64      `json:"prepaid_fee_percent"`
	Value             Amount      `json:"value"`
}

// AdjustRequest parameters for adjusting a position. Top-up and
// pay-down are decided by comparing the new values against the record.
type AdjustRequest struct {
	Caller        string     `json:"caller"`
	LoanID        uint64     `json:"loan_id"`
	NewAmount     Amount     `json:"new_amount"`
	NewCollateral Amount     `json:"new_collateral"`
	Beneficiary   string     `json:"beneficiary"`
	Allowance     *Allowance `json:"allowance,omitempty"`
	Value         Amount     `json:"value"`
}

// ILoanService loan lifecycle orchestrator.
type ILoanService interface {
	Open(ctx context.Context, req *OpenRequest) (*Loan, error)
	Adjust(ctx context.Context, req *AdjustRequest) (*Loan, error)
	MaxBorrowable(ctx context.Context, revnetID uint64, collateral Amount) (Amount, error)
	LiquidateExpired(ctx context.Context, limit int) (int, error)
}
