package core

import "context"

// Allowance a caller-signed spending allowance for pulling repayment
// funds. Verification happens in the collaborator, not here.
type Allowance struct {
	Token     string `json:"token"`
	Amount    Amount `json:"amount"`
	Deadline  int64  `json:"deadline"`
	Nonce     uint64 `json:"nonce"`
	Signature string `json:"signature"`
}

// IAllowanceService payment-authorization collaborator. Pull tries the
// payer's standing allowance first, then falls back to the signed
// allowance protocol.
type IAllowanceService interface {
	Pull(ctx context.Context, payer, token string, amount Amount, allowance *Allowance) error
	// Refund returns surplus funds pulled beyond what the operation
	// needed.
	Refund(ctx context.Context, recipient, token string, amount Amount) error
}
