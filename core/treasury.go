package core

import "context"

// ITreasuryService token movement against the issuance protocol.
// Mint and Burn act on revnet (collateral) tokens; the rest move the
// borrowed base asset through a funding source.
type ITreasuryService interface {
	// Mint issues revnet tokens to the beneficiary (collateral return).
	Mint(ctx context.Context, revnetID uint64, amount Amount, beneficiary string) error
	// Burn destroys revnet tokens held by holder (collateral escrow).
	Burn(ctx context.Context, revnetID uint64, holder string, amount Amount) error
	// PullAllowance draws on the revnet's pre-approved treasury
	// allowance, sending the funds to beneficiary.
	PullAllowance(ctx context.Context, source *LoanSource, amount Amount, beneficiary string) error
	// Pay pays funds into the source's terminal, e.g. fee payments.
	Pay(ctx context.Context, source *LoanSource, amount Amount, beneficiary, memo string) error
	// AddToBalance returns funds to the source's balance without
	// minting against them (principal repayment).
	AddToBalance(ctx context.Context, source *LoanSource, amount Amount, memo string) error
	// Transfer moves funds held by the facility to a recipient.
	Transfer(ctx context.Context, token string, amount Amount, recipient string) error
}
