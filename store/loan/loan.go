package loan

import (
	"context"
	"errors"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"

	"revloans/core"
)

// ErrVersionConflict concurrent update detected by the version guard.
var ErrVersionConflict = errors.New("loan version conflict")

type loanStore struct {
	db *db.DB
}

// New new loan store
func New(db *db.DB) core.ILoanStore {
	return &loanStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update()

		if err := tx.AutoMigrate(core.Loan{}).Error; err != nil {
			return err
		}
		if err := tx.AutoMigrate(core.LoanSource{}).Error; err != nil {
			return err
		}
		if err := tx.AutoMigrate(core.RevnetDebt{}).Error; err != nil {
			return err
		}
		if err := tx.AutoMigrate(core.RevnetCollateral{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *loanStore) Create(ctx context.Context, tx *db.DB, loan *core.Loan) error {
	return tx.Update().Create(loan).Error
}

func (s *loanStore) Find(ctx context.Context, id uint64) (*core.Loan, error) {
	var loan core.Loan
	if err := s.db.View().Where("id = ?", id).First(&loan).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrLoanNotFound
		}
		return nil, err
	}

	return &loan, nil
}

func (s *loanStore) Update(ctx context.Context, tx *db.DB, loan *core.Loan) error {
	version := loan.Version
	loan.Version++

	updates := map[string]interface{}{
		"amount":     loan.Amount,
		"collateral": loan.Collateral,
		"version":    loan.Version,
	}

	q := tx.Update().Model(core.Loan{}).Where("id = ? AND version = ?", loan.ID, version).Updates(updates)
	if q.Error != nil {
		return q.Error
	}

	if q.RowsAffected == 0 {
		return ErrVersionConflict
	}

	return nil
}

func (s *loanStore) ListFrom(ctx context.Context, fromID uint64, limit int) ([]*core.Loan, error) {
	var loans []*core.Loan
	if err := s.db.View().Where("id > ?", fromID).Order("id").Limit(limit).Find(&loans).Error; err != nil {
		return nil, err
	}

	return loans, nil
}

func (s *loanStore) CountOf(ctx context.Context, revnetID uint64) (int64, error) {
	var count int64
	if err := s.db.View().Model(core.Loan{}).Where("revnet_id = ?", revnetID).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (s *loanStore) RegisterSource(ctx context.Context, tx *db.DB, source *core.LoanSource) (bool, error) {
	var count int
	if err := tx.Update().Model(core.LoanSource{}).
		Where("revnet_id = ? AND terminal = ? AND token = ?", source.RevnetID, source.Terminal, source.Token).
		Count(&count).Error; err != nil {
		return false, err
	}

	if count > 0 {
		return false, nil
	}

	row := core.LoanSource{
		RevnetID: source.RevnetID,
		Terminal: source.Terminal,
		Token:    source.Token,
	}
	if err := tx.Update().Create(&row).Error; err != nil {
		return false, err
	}

	return true, nil
}

func (s *loanStore) SourcesOf(ctx context.Context, revnetID uint64) ([]*core.LoanSource, error) {
	var sources []*core.LoanSource
	if err := s.db.View().Where("revnet_id = ?", revnetID).Order("id").Find(&sources).Error; err != nil {
		return nil, err
	}

	return sources, nil
}

func (s *loanStore) AddBorrowed(ctx context.Context, tx *db.DB, source *core.LoanSource, delta core.Amount) error {
	var debt core.RevnetDebt
	err := tx.Update().
		Where("revnet_id = ? AND terminal = ? AND token = ?", source.RevnetID, source.Terminal, source.Token).
		First(&debt).Error

	if gorm.IsRecordNotFoundError(err) {
		debt = core.RevnetDebt{
			RevnetID: source.RevnetID,
			Terminal: source.Terminal,
			Token:    source.Token,
			Amount:   delta,
		}
		return tx.Update().Create(&debt).Error
	}

	if err != nil {
		return err
	}

	return tx.Update().Model(core.RevnetDebt{}).Where("id = ?", debt.ID).
		Update("amount", debt.Amount.Add(delta)).Error
}

func (s *loanStore) SubBorrowed(ctx context.Context, tx *db.DB, source *core.LoanSource, delta core.Amount) error {
	var debt core.RevnetDebt
	if err := tx.Update().
		Where("revnet_id = ? AND terminal = ? AND token = ?", source.RevnetID, source.Terminal, source.Token).
		First(&debt).Error; err != nil {
		return err
	}

	return tx.Update().Model(core.RevnetDebt{}).Where("id = ?", debt.ID).
		Update("amount", debt.Amount.Sub(delta)).Error
}

func (s *loanStore) AddCollateral(ctx context.Context, tx *db.DB, revnetID uint64, delta core.Amount) error {
	var row core.RevnetCollateral
	err := tx.Update().Where("revnet_id = ?", revnetID).First(&row).Error

	if gorm.IsRecordNotFoundError(err) {
		row = core.RevnetCollateral{RevnetID: revnetID, Collateral: delta}
		return tx.Update().Create(&row).Error
	}

	if err != nil {
		return err
	}

	return tx.Update().Model(core.RevnetCollateral{}).Where("id = ?", row.ID).
		Update("collateral", row.Collateral.Add(delta)).Error
}

func (s *loanStore) SubCollateral(ctx context.Context, tx *db.DB, revnetID uint64, delta core.Amount) error {
	var row core.RevnetCollateral
	if err := tx.Update().Where("revnet_id = ?", revnetID).First(&row).Error; err != nil {
		return err
	}

	return tx.Update().Model(core.RevnetCollateral{}).Where("id = ?", row.ID).
		Update("collateral", row.Collateral.Sub(delta)).Error
}

func (s *loanStore) TotalBorrowedFrom(ctx context.Context, revnetID uint64, terminal, token string) (core.Amount, error) {
	var debt core.RevnetDebt
	err := s.db.View().
		Where("revnet_id = ? AND terminal = ? AND token = ?", revnetID, terminal, token).
		First(&debt).Error

	if gorm.IsRecordNotFoundError(err) {
		return core.Amount{}, nil
	}
	if err != nil {
		return core.Amount{}, err
	}

	return debt.Amount, nil
}

func (s *loanStore) TotalCollateralOf(ctx context.Context, revnetID uint64) (core.Amount, error) {
	var row core.RevnetCollateral
	err := s.db.View().Where("revnet_id = ?", revnetID).First(&row).Error

	if gorm.IsRecordNotFoundError(err) {
		return core.Amount{}, nil
	}
	if err != nil {
		return core.Amount{}, err
	}

	return row.Collateral, nil
}

// Amounts live in varchar columns, so the recounts below sum in Go
// rather than in SQL.

func (s *loanStore) SumBorrowedFrom(ctx context.Context, revnetID uint64, terminal, token string) (core.Amount, error) {
	var loans []*core.Loan
	if err := s.db.View().
		Where("revnet_id = ? AND terminal = ? AND token = ?", revnetID, terminal, token).
		Find(&loans).Error; err != nil {
		return core.Amount{}, err
	}

	var sum core.Amount
	for _, l := range loans {
		sum = sum.Add(l.Amount)
	}

	return sum, nil
}

func (s *loanStore) SumCollateralOf(ctx context.Context, revnetID uint64) (core.Amount, error) {
	var loans []*core.Loan
	if err := s.db.View().Where("revnet_id = ?", revnetID).Find(&loans).Error; err != nil {
		return core.Amount{}, err
	}

	var sum core.Amount
	for _, l := range loans {
		sum = sum.Add(l.Collateral)
	}

	return sum, nil
}
