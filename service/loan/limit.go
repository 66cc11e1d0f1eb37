package loan

import (
	"context"

	"github.com/fox-one/pkg/logger"

	"revloans/core"
)

// refScale is 10^RefDecimals, the unit a price ratio is scaled by.
var refScale = core.NewAmount(1_000_000_000_000_000_000)

// MaxBorrowable the amount borrowable against the given collateral:
// collateral's share of the revnet's total backing (treasury surplus
// plus value already lent out), proportional to its share of the total
// claim-bearing supply (circulating + pledged + pending issuance).
func (s *loanService) MaxBorrowable(ctx context.Context, revnetID uint64, collateral core.Amount) (core.Amount, error) {
	log := logger.FromContext(ctx).WithField("revnet_id", revnetID)

	if collateral.IsZero() {
		return core.Amount{}, nil
	}

	sources, err := s.loans.SourcesOf(ctx, revnetID)
	if err != nil {
		return core.Amount{}, err
	}

	surplus, err := s.oracle.SurplusOf(ctx, revnetID, sources, core.RefDecimals, core.RefCurrency)
	if err != nil {
		log.WithError(err).Errorln("oracle.SurplusOf")
		return core.Amount{}, err
	}

	totalDebt, err := s.totalDebtOf(ctx, revnetID, sources)
	if err != nil {
		return core.Amount{}, err
	}

	supply, err := s.oracle.CirculatingSupply(ctx, revnetID)
	if err != nil {
		return core.Amount{}, err
	}

	pending, err := s.oracle.PendingIssuance(ctx, revnetID)
	if err != nil {
		return core.Amount{}, err
	}

	pledged, err := s.loans.TotalCollateralOf(ctx, revnetID)
	if err != nil {
		return core.Amount{}, err
	}

	denominator := supply.Add(pledged).Add(pending)
	if denominator.IsZero() {
		log.Errorln("zero backing supply with live collateral")
		return core.Amount{}, core.ErrZeroBackingSupply
	}

	return collateral.MulDiv(surplus.Add(totalDebt), denominator)
}

// totalDebtOf sums the outstanding debt across every registered source,
// priced into the reference currency. Sources already accounted in the
// reference currency skip the price lookup.
func (s *loanService) totalDebtOf(ctx context.Context, revnetID uint64, sources []*core.LoanSource) (core.Amount, error) {
	var total core.Amount

	for _, source := range sources {
		outstanding, err := s.loans.TotalBorrowedFrom(ctx, revnetID, source.Terminal, source.Token)
		if err != nil {
			return core.Amount{}, err
		}

		if outstanding.IsZero() {
			continue
		}

		accounting, err := s.oracle.AccountingContext(ctx, source)
		if err != nil {
			return core.Amount{}, err
		}

		if accounting.Currency == core.RefCurrency {
			total = total.Add(outstanding)
			continue
		}

		ratio, err := s.oracle.PriceRatio(ctx, revnetID, accounting.Currency, core.RefCurrency, core.RefDecimals)
		if err != nil {
			return core.Amount{}, err
		}

		priced, err := outstanding.MulDiv(ratio, refScale)
		if err != nil {
			return core.Amount{}, err
		}

		total = total.Add(priced)
	}

	return total, nil
}
