package event

import (
	"context"

	"github.com/fox-one/pkg/store/db"

	"revloans/core"
)

type eventStore struct {
	db *db.DB
}

// New new event store
func New(db *db.DB) core.IEventStore {
	return &eventStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		return db.Update().AutoMigrate(core.LoanEvent{}).Error
	})
}

func (s *eventStore) Create(ctx context.Context, tx *db.DB, event *core.LoanEvent) error {
	return tx.Update().Create(event).Error
}

func (s *eventStore) FindByLoan(ctx context.Context, loanID uint64) ([]*core.LoanEvent, error) {
	var events []*core.LoanEvent
	if err := s.db.View().Where("loan_id = ?", loanID).Order("id").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (s *eventStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.LoanEvent, error) {
	var events []*core.LoanEvent
	if err := s.db.View().Where("id > ?", fromID).Order("id").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}
