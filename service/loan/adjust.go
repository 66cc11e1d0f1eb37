package loan

import (
	"context"
	"fmt"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	foxuuid "github.com/fox-one/pkg/uuid"
	"github.com/sirupsen/logrus"

	"revloans/core"
	"revloans/internal/fees"
	"revloans/pkg/id"
)

func (s *loanService) Open(ctx context.Context, req *core.OpenRequest) (*core.Loan, error) {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"op":        "loans.Open",
		"revnet_id": req.RevnetID,
	})
	ctx = logger.WithContext(ctx, log)

	if req.Source == nil || req.Source.Terminal == "" || req.Source.Token == "" {
		return nil, core.ErrOperationForbidden
	}

	if req.Amount.IsZero() {
		return nil, core.ErrMissingAmount
	}

	if req.PrepaidFeePercent > fees.MaxPrepaidFeePercent {
		return nil, core.ErrInvalidFee
	}

	if !req.Value.IsZero() && req.Source.Token != s.nativeToken {
		return nil, core.ErrNoValueExpected
	}

	loan := &core.Loan{
		RevnetID:          req.RevnetID,
		Terminal:          req.Source.Terminal,
		Token:             req.Source.Token,
		PrepaidFeePercent: req.PrepaidFeePercent,
		PrepaidDuration:   int64(fees.PrepaidDuration(req.PrepaidFeePercent).Seconds()),
		CreatedAt:         s.clock(),
	}

	err := s.db.Tx(func(tx *db.DB) error {
		if err := s.loans.Create(ctx, tx, loan); err != nil {
			log.WithError(err).Errorln("loans.Create")
			return err
		}

		if err := s.ownership.Mint(ctx, req.Caller, loan.ID); err != nil {
			log.WithError(err).Errorln("ownership.Mint")
			return err
		}

		return s.adjust(ctx, tx, loan, adjustment{
			newAmount:     req.Amount,
			newCollateral: req.Collateral,
			beneficiary:   req.Beneficiary,
			caller:        req.Caller,
			value:         req.Value,
			eventType:     core.EventTypeBorrow,
		})
	})
	if err != nil {
		return nil, err
	}

	return loan, nil
}

func (s *loanService) Adjust(ctx context.Context, req *core.AdjustRequest) (*core.Loan, error) {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"op":      "loans.Adjust",
		"loan_id": req.LoanID,
	})
	ctx = logger.WithContext(ctx, log)

	loan, err := s.loans.Find(ctx, req.LoanID)
	if err != nil {
		return nil, err
	}

	if loan.Closed() {
		return nil, core.ErrLoanNotFound
	}

	owner, err := s.ownership.OwnerOf(ctx, loan.ID)
	if err != nil {
		log.WithError(err).Errorln("ownership.OwnerOf")
		return nil, err
	}

	if owner != req.Caller {
		return nil, core.ErrUnauthorized
	}

	if !req.Value.IsZero() && loan.Token != s.nativeToken {
		return nil, core.ErrNoValueExpected
	}

	// Top-up and pay-down are mutually exclusive per call: the repay
	// path may not raise the borrowed amount, and a shrinking amount
	// may not smuggle in extra collateral.
	amountUp := req.NewAmount.Cmp(loan.Amount) > 0
	amountDown := req.NewAmount.Cmp(loan.Amount) < 0
	if amountUp && req.NewCollateral.Cmp(loan.Collateral) < 0 {
		return nil, core.ErrBorrowExceedsLoan
	}
	if amountDown && req.NewCollateral.Cmp(loan.Collateral) > 0 {
		return nil, core.ErrOperationForbidden
	}

	err = s.db.Tx(func(tx *db.DB) error {
		return s.adjust(ctx, tx, loan, adjustment{
			newAmount:     req.NewAmount,
			newCollateral: req.NewCollateral,
			beneficiary:   req.Beneficiary,
			caller:        req.Caller,
			allowance:     req.Allowance,
			value:         req.Value,
			eventType:     core.EventTypeAdjust,
		})
	})
	if err != nil {
		return nil, err
	}

	return loan, nil
}

type adjustment struct {
	newAmount     core.Amount
	newCollateral core.Amount
	beneficiary   string
	caller        string
	allowance     *core.Allowance
	value         core.Amount
	eventType     string
}

// adjust moves a loan from its current amount/collateral to the new
// values in one atomic operation: collateralization check, borrow or
// repay leg, collateral leg, record update, close-out.
func (s *loanService) adjust(ctx context.Context, tx *db.DB, loan *core.Loan, p adjustment) error {
	log := logger.FromContext(ctx)

	amountUp := p.newAmount.Cmp(loan.Amount) > 0
	amountDown := p.newAmount.Cmp(loan.Amount) < 0
	collateralDelta := p.newCollateral.Cmp(loan.Collateral)

	// A positive-amount, zero-collateral position is unreachable by
	// construction.
	if !p.newAmount.IsZero() && p.newCollateral.IsZero() {
		return core.ErrInsufficientCollateral
	}

	if amountUp || collateralDelta != 0 {
		limit, err := s.MaxBorrowable(ctx, loan.RevnetID, p.newCollateral)
		if err != nil {
			return err
		}

		if limit.Cmp(p.newAmount) < 0 {
			return core.ErrInsufficientCollateral
		}
	}

	if amountUp {
		if err := s.borrowMore(ctx, tx, loan, p); err != nil {
			return err
		}
	} else if amountDown {
		if err := s.payDown(ctx, tx, loan, p); err != nil {
			return err
		}
	}

	if collateralDelta > 0 {
		delta := p.newCollateral.Sub(loan.Collateral)
		if err := s.treasury.Burn(ctx, loan.RevnetID, p.caller, delta); err != nil {
			log.WithError(err).Errorln("treasury.Burn")
			return err
		}

		if err := s.loans.AddCollateral(ctx, tx, loan.RevnetID, delta); err != nil {
			return err
		}
	} else if collateralDelta < 0 {
		delta := loan.Collateral.Sub(p.newCollateral)
		if err := s.treasury.Mint(ctx, loan.RevnetID, delta, p.beneficiary); err != nil {
			log.WithError(err).Errorln("treasury.Mint")
			return err
		}

		if err := s.loans.SubCollateral(ctx, tx, loan.RevnetID, delta); err != nil {
			return err
		}
	}

	loan.Amount = p.newAmount
	loan.Collateral = p.newCollateral
	if err := s.loans.Update(ctx, tx, loan); err != nil {
		log.WithError(err).Errorln("loans.Update")
		return err
	}

	event := &core.LoanEvent{
		Type:        p.eventType,
		LoanID:      loan.ID,
		RevnetID:    loan.RevnetID,
		Terminal:    loan.Terminal,
		Token:       loan.Token,
		Amount:      loan.Amount,
		Collateral:  loan.Collateral,
		Beneficiary: p.beneficiary,
		Caller:      p.caller,
		CreatedAt:   s.clock(),
	}
	if err := s.events.Create(ctx, tx, event); err != nil {
		return err
	}

	if loan.Closed() {
		if err := s.ownership.Burn(ctx, loan.ID); err != nil {
			log.WithError(err).Errorln("ownership.Burn")
			return err
		}
	}

	return nil
}

// borrowMore draws more funds from the revnet's treasury allowance,
// splits the origination fee three ways and forwards the remainder to
// the beneficiary.
func (s *loanService) borrowMore(ctx context.Context, tx *db.DB, loan *core.Loan, p adjustment) error {
	log := logger.FromContext(ctx)

	source := loan.Source()
	delta := p.newAmount.Sub(loan.Amount)

	if _, err := s.loans.RegisterSource(ctx, tx, source); err != nil {
		return err
	}

	if err := s.loans.AddBorrowed(ctx, tx, source, delta); err != nil {
		return err
	}

	if err := s.treasury.PullAllowance(ctx, source, delta, s.account); err != nil {
		log.WithError(err).Errorln("treasury.PullAllowance")
		return err
	}

	protocolFee, revenueFee, prepaidFee := fees.OriginationFees(delta, loan.PrepaidFeePercent)
	s.payFee(ctx, loan, s.protocolFee, protocolFee, "fee:protocol")
	s.payFee(ctx, loan, s.revenueFee, revenueFee, "fee:revenue")
	s.payFee(ctx, loan, source, prepaidFee, "fee:prepaid")

	net := delta.Sub(protocolFee).Sub(revenueFee).Sub(prepaidFee)
	if net.IsZero() {
		return nil
	}

	if err := s.treasury.Transfer(ctx, loan.Token, net, p.beneficiary); err != nil {
		log.WithError(err).Errorln("treasury.Transfer")
		return err
	}

	return nil
}

// payDown pulls repayment plus the time-decayed fee from the caller,
// refunds any overpayment and returns the principal to the source.
func (s *loanService) payDown(ctx context.Context, tx *db.DB, loan *core.Loan, p adjustment) error {
	log := logger.FromContext(ctx)

	source := loan.Source()
	delta := loan.Amount.Sub(p.newAmount)
	elapsed := s.clock().Sub(loan.CreatedAt)

	fee, err := fees.RepaymentFee(delta, loan.PrepaidFeePercent, loan.PrepaidWindow(), elapsed)
	if err != nil {
		return err
	}

	needed := delta.Add(fee)

	tendered := p.value
	if tendered.IsZero() && p.allowance != nil {
		tendered = p.allowance.Amount
	}
	if tendered.Cmp(needed) < 0 {
		return core.ErrExcessiveAllowance
	}

	if err := s.allowance.Pull(ctx, p.caller, loan.Token, tendered, p.allowance); err != nil {
		log.WithError(err).Errorln("allowance.Pull")
		return err
	}

	if over := tendered.Sub(needed); !over.IsZero() {
		if err := s.allowance.Refund(ctx, p.caller, loan.Token, over); err != nil {
			log.WithError(err).Errorln("allowance.Refund")
			return err
		}
	}

	if err := s.loans.SubBorrowed(ctx, tx, source, delta); err != nil {
		return err
	}

	// The decay fee goes to the source the loan was drawn from.
	s.payFee(ctx, loan, source, fee, "fee:repay")

	memo := foxuuid.Modify(id.TraceIDFrom(fmt.Sprintf("loan-%d-%d", loan.ID, loan.Version)), "repay")
	if err := s.treasury.AddToBalance(ctx, source, delta, memo); err != nil {
		log.WithError(err).Errorln("treasury.AddToBalance")
		return err
	}

	return nil
}

// payFee sends a fee to its destination, best effort: a failed send is
// logged and swallowed so fee delivery never aborts the adjustment.
func (s *loanService) payFee(ctx context.Context, loan *core.Loan, dest *core.LoanSource, amount core.Amount, kind string) {
	if amount.IsZero() {
		return
	}

	memo := foxuuid.Modify(id.TraceIDFrom(fmt.Sprintf("loan-%d-%d", loan.ID, loan.Version)), kind)
	if err := s.treasury.Pay(ctx, dest, amount, s.account, memo); err != nil {
		logger.FromContext(ctx).WithError(err).WithFields(logrus.Fields{
			"fee":    kind,
			"amount": amount,
		}).Errorln("fee distribution skipped")
	}
}
