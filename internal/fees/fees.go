// Package fees implements the origination and repayment fee schedule.
// All percentages are expressed on FeeBase; every computation multiplies
// before dividing and truncates toward zero, bit-exact with the
// issuance protocol.
package fees

import (
	"time"

	"revloans/core"
)

const (
	// FeeBase the "100%" denominator for fee percentages.
	FeeBase = 1000

	// ProtocolFeePercent protocol-level fee taken on every borrow, on FeeBase.
	ProtocolFeePercent = 25
	// RevenueFeePercent fixed protocol-revenue fee taken on every borrow, on FeeBase.
	RevenueFeePercent = 25
	// MaxPrepaidFeePercent upper bound for the caller-chosen prepaid fee, on FeeBase.
	MaxPrepaidFeePercent = 500

	// LiquidationDuration horizon after which an unpaid loan's
	// collateral is forfeited.
	LiquidationDuration = 3650 * 24 * time.Hour
)

// liquidationSeconds duration in whole seconds, the unit fee math runs in.
const liquidationSeconds = int64(LiquidationDuration / time.Second)

var feeBase = core.NewAmount(FeeBase)

// PrepaidDuration the fee-free window bought by prepaying: linear in
// the prepaid percent, the full liquidation duration at the max.
func PrepaidDuration(prepaidPercent uint64) time.Duration {
	secs := int64(prepaidPercent) * liquidationSeconds / MaxPrepaidFeePercent
	return time.Duration(secs) * time.Second
}

// FeeAmount amount*percent/FeeBase, truncating.
func FeeAmount(amount core.Amount, percent uint64) core.Amount {
	// Cannot overflow or divide by zero: percent <= FeeBase.
	fee, _ := amount.MulDiv(core.NewAmount(percent), feeBase)
	return fee
}

// OriginationFees the three-way split taken from a borrowed delta. The
// remainder after all three is what reaches the beneficiary.
func OriginationFees(delta core.Amount, prepaidPercent uint64) (protocol, revenue, prepaid core.Amount) {
	protocol = FeeAmount(delta, ProtocolFeePercent)
	revenue = FeeAmount(delta, RevenueFeePercent)
	prepaid = FeeAmount(delta, prepaidPercent)
	return
}

// RepaymentFee the time-decayed fee on paying down delta after elapsed
// time since creation. Zero within the prepaid window; past the
// liquidation horizon the loan can only be liquidated.
//
// The subtraction cannot go negative: elapsed/LiquidationDuration >
// prepaidPercent/MaxPrepaidFeePercent >= prepaidPercent/FeeBase once
// elapsed exceeds the prepaid duration.
func RepaymentFee(delta core.Amount, prepaidPercent uint64, prepaidDuration, elapsed time.Duration) (core.Amount, error) {
	if elapsed >= LiquidationDuration {
		return core.Amount{}, core.ErrLoanExpired
	}

	if elapsed <= prepaidDuration {
		return core.Amount{}, nil
	}

	decay, err := delta.MulDiv(core.NewAmount(uint64(elapsed/time.Second)), core.NewAmount(uint64(liquidationSeconds)))
	if err != nil {
		return core.Amount{}, err
	}

	return decay.Sub(FeeAmount(delta, prepaidPercent)), nil
}
