package loan

import (
	"context"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"

	"revloans/core"
	"revloans/internal/fees"
)

const liquidationCheckpoint = "loans_liquidation_checkpoint"

// LiquidateExpired walks positions past the watermark in ID order and
// liquidates those past the liquidation horizon; collateral is
// forfeited, not returned. IDs are assigned in creation order, so
// eligibility is monotonic in ID: the scan stops at the first position
// that has not expired yet, leaving the remaining budget unconsumed.
// If creation timestamps were ever out of order, a young loan could
// shadow older expired ones behind it; the store's ID assignment is
// the precondition that rules this out.
func (s *loanService) LiquidateExpired(ctx context.Context, limit int) (int, error) {
	log := logger.FromContext(ctx).WithField("op", "loans.LiquidateExpired")
	ctx = logger.WithContext(ctx, log)

	v, err := s.property.Get(ctx, liquidationCheckpoint)
	if err != nil {
		log.WithError(err).Errorln("property.Get", liquidationCheckpoint)
		return 0, err
	}

	watermark := uint64(v.Int64())

	loans, err := s.loans.ListFrom(ctx, watermark, limit)
	if err != nil {
		return 0, err
	}

	var (
		now        = s.clock()
		liquidated = 0
		last       = watermark
	)

	for _, loan := range loans {
		if now.Sub(loan.CreatedAt) <= fees.LiquidationDuration {
			break
		}

		// Positions paid off earlier sit closed inside the expired
		// window; the watermark passes over them.
		if !loan.Closed() {
			if err := s.liquidate(ctx, loan); err != nil {
				return liquidated, err
			}
			liquidated++
		}

		last = loan.ID
	}

	if last != watermark {
		if err := s.property.Save(ctx, liquidationCheckpoint, int64(last)); err != nil {
			log.WithError(err).Errorln("property.Save", liquidationCheckpoint)
			return liquidated, err
		}
	}

	return liquidated, nil
}

func (s *loanService) liquidate(ctx context.Context, loan *core.Loan) error {
	log := logger.FromContext(ctx).WithField("loan_id", loan.ID)

	return s.db.Tx(func(tx *db.DB) error {
		// Event snapshots what was outstanding, taken before the wipe.
		event := &core.LoanEvent{
			Type:       core.EventTypeLiquidate,
			LoanID:     loan.ID,
			RevnetID:   loan.RevnetID,
			Terminal:   loan.Terminal,
			Token:      loan.Token,
			Amount:     loan.Amount,
			Collateral: loan.Collateral,
			Caller:     "sweeper",
			CreatedAt:  s.clock(),
		}

		if !loan.Amount.IsZero() {
			if err := s.loans.SubBorrowed(ctx, tx, loan.Source(), loan.Amount); err != nil {
				return err
			}
		}

		if !loan.Collateral.IsZero() {
			if err := s.loans.SubCollateral(ctx, tx, loan.RevnetID, loan.Collateral); err != nil {
				return err
			}
		}

		loan.Amount = core.Amount{}
		loan.Collateral = core.Amount{}
		if err := s.loans.Update(ctx, tx, loan); err != nil {
			return err
		}

		if err := s.events.Create(ctx, tx, event); err != nil {
			return err
		}

		if err := s.ownership.Burn(ctx, loan.ID); err != nil {
			log.WithError(err).Errorln("ownership.Burn")
			return err
		}

		log.Infoln("loan liquidated")
		return nil
	})
}
