package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Event types, in the order they can appear in a loan's life.
const (
	EventTypeBorrow    = "borrow"
	EventTypeAdjust    = "adjust"
	EventTypeLiquidate = "liquidate"
)

// LoanEvent an entry in the observable, ordered lifecycle log. Amount
// and Collateral snapshot the record after the operation.
type LoanEvent struct {
	ID          uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Type        string    `sql:"size:16" json:"type"`
	LoanID      uint64    `sql:"index:event_loan_idx" json:"loan_id"`
	RevnetID    uint64    `sql:"index:event_revnet_idx" json:"revnet_id"`
	Terminal    string    `sql:"size:66" json:"terminal"`
	Token       string    `sql:"size:66" json:"token"`
	Amount      Amount    `sql:"type:varchar(80)" json:"amount"`
	Collateral  Amount    `sql:"type:varchar(80)" json:"collateral"`
	Beneficiary string    `sql:"size:66" json:"beneficiary"`
	Caller      string    `sql:"size:66" json:"caller"`
	CreatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// IEventStore lifecycle event log store.
type IEventStore interface {
	Create(ctx context.Context, tx *db.DB, event *LoanEvent) error
	FindByLoan(ctx context.Context, loanID uint64) ([]*LoanEvent, error)
	List(ctx context.Context, fromID uint64, limit int) ([]*LoanEvent, error)
}
