package core

import "context"

// AccountingContext how a funding source accounts amounts.
type AccountingContext struct {
	Decimals uint32 `json:"decimals"`
	Currency string `json:"currency"`
}

// IOracleService valuation adapter over the issuance protocol: treasury
// surplus, price ratios, supply figures. Read-only; prices and surplus
// math live in the protocol, not here.
type IOracleService interface {
	// SurplusOf values the revnet's treasury surplus across the given
	// sources in the requested currency and precision.
	SurplusOf(ctx context.Context, revnetID uint64, sources []*LoanSource, decimals uint32, currency string) (Amount, error)
	// PriceRatio returns the from->to unit price scaled by 10^decimals.
	PriceRatio(ctx context.Context, revnetID uint64, fromCurrency, toCurrency string, decimals uint32) (Amount, error)
	CirculatingSupply(ctx context.Context, revnetID uint64) (Amount, error)
	PendingIssuance(ctx context.Context, revnetID uint64) (Amount, error)
	AccountingContext(ctx context.Context, source *LoanSource) (*AccountingContext, error)
}
