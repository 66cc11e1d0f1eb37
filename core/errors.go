package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001

	// ErrLoanNotFound no loan with the given id
	ErrLoanNotFound ErrorCode = 100100
	// ErrMissingAmount zero borrow amount on open
	ErrMissingAmount ErrorCode = 100101
	// ErrInvalidFee prepaid fee percent out of range
	ErrInvalidFee ErrorCode = 100102
	// ErrInsufficientCollateral position under-collateralized after adjustment
	ErrInsufficientCollateral ErrorCode = 100103
	// ErrUnauthorized caller is not the position principal
	ErrUnauthorized ErrorCode = 100104
	// ErrLoanExpired repayment attempted past the liquidation horizon
	ErrLoanExpired ErrorCode = 100105
	// ErrBorrowExceedsLoan repay path asked to raise the borrowed amount
	ErrBorrowExceedsLoan ErrorCode = 100106
	// ErrExcessiveAllowance signed allowance insufficient or mismatched
	ErrExcessiveAllowance ErrorCode = 100107
	// ErrNoValueExpected native value attached to a non-native operation
	ErrNoValueExpected ErrorCode = 100108
	// ErrZeroBackingSupply borrowing-limit denominator is zero
	ErrZeroBackingSupply ErrorCode = 100109
)

var errorMsgs = map[ErrorCode]string{
	ErrUnknown:                "unknown",
	ErrOperationForbidden:     "operation forbidden",
	ErrLoanNotFound:           "loan not found",
	ErrMissingAmount:          "missing amount",
	ErrInvalidFee:             "invalid prepaid fee percent",
	ErrInsufficientCollateral: "insufficient collateral",
	ErrUnauthorized:           "unauthorized",
	ErrLoanExpired:            "loan expired",
	ErrBorrowExceedsLoan:      "new borrow amount over loan amount",
	ErrExcessiveAllowance:     "excessive allowance",
	ErrNoValueExpected:        "no value expected",
	ErrZeroBackingSupply:      "zero backing supply",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMsgs[e]; ok {
		return msg
	}

	return e.String()
}
