package loan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revloans/core"
	"revloans/internal/fees"
	"revloans/store/event"
	loanstore "revloans/store/loan"
)

type fakeOracle struct {
	surplus core.Amount
	supply  core.Amount
	pending core.Amount
	ratios  map[string]core.Amount
	ctxs    map[string]*core.AccountingContext
}

func (f *fakeOracle) SurplusOf(ctx context.Context, revnetID uint64, sources []*core.LoanSource, decimals uint32, currency string) (core.Amount, error) {
	return f.surplus, nil
}

func (f *fakeOracle) PriceRatio(ctx context.Context, revnetID uint64, fromCurrency, toCurrency string, decimals uint32) (core.Amount, error) {
	if r, ok := f.ratios[fromCurrency+"->"+toCurrency]; ok {
		return r, nil
	}
	return refScale, nil
}

func (f *fakeOracle) CirculatingSupply(ctx context.Context, revnetID uint64) (core.Amount, error) {
	return f.supply, nil
}

func (f *fakeOracle) PendingIssuance(ctx context.Context, revnetID uint64) (core.Amount, error) {
	return f.pending, nil
}

func (f *fakeOracle) AccountingContext(ctx context.Context, source *core.LoanSource) (*core.AccountingContext, error) {
	if c, ok := f.ctxs[source.Terminal+"|"+source.Token]; ok {
		return c, nil
	}
	return &core.AccountingContext{Decimals: core.RefDecimals, Currency: core.RefCurrency}, nil
}

type treasuryCall struct {
	kind   string
	amount core.Amount
	arg    string
}

type fakeTreasury struct {
	calls   []treasuryCall
	failPay error
}

func (f *fakeTreasury) record(kind string, amount core.Amount, arg string) {
	f.calls = append(f.calls, treasuryCall{kind: kind, amount: amount, arg: arg})
}

func (f *fakeTreasury) of(kind string) []treasuryCall {
	var out []treasuryCall
	for _, c := range f.calls {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeTreasury) Mint(ctx context.Context, revnetID uint64, amount core.Amount, beneficiary string) error {
	f.record("mint", amount, beneficiary)
	return nil
}

func (f *fakeTreasury) Burn(ctx context.Context, revnetID uint64, holder string, amount core.Amount) error {
	f.record("burn", amount, holder)
	return nil
}

func (f *fakeTreasury) PullAllowance(ctx context.Context, source *core.LoanSource, amount core.Amount, beneficiary string) error {
	f.record("pull-allowance", amount, beneficiary)
	return nil
}

func (f *fakeTreasury) Pay(ctx context.Context, source *core.LoanSource, amount core.Amount, beneficiary, memo string) error {
	if f.failPay != nil {
		return f.failPay
	}
	f.record("pay", amount, memo)
	return nil
}

func (f *fakeTreasury) AddToBalance(ctx context.Context, source *core.LoanSource, amount core.Amount, memo string) error {
	f.record("add-to-balance", amount, memo)
	return nil
}

func (f *fakeTreasury) Transfer(ctx context.Context, token string, amount core.Amount, recipient string) error {
	f.record("transfer", amount, recipient)
	return nil
}

type fakeOwnership struct {
	owners map[uint64]string
}

func (f *fakeOwnership) OwnerOf(ctx context.Context, loanID uint64) (string, error) {
	return f.owners[loanID], nil
}

func (f *fakeOwnership) Mint(ctx context.Context, owner string, loanID uint64) error {
	f.owners[loanID] = owner
	return nil
}

func (f *fakeOwnership) Burn(ctx context.Context, loanID uint64) error {
	delete(f.owners, loanID)
	return nil
}

type fakeAllowance struct {
	pulls   []core.Amount
	refunds []core.Amount
}

func (f *fakeAllowance) Pull(ctx context.Context, payer, token string, amount core.Amount, allowance *core.Allowance) error {
	f.pulls = append(f.pulls, amount)
	return nil
}

func (f *fakeAllowance) Refund(ctx context.Context, recipient, token string, amount core.Amount) error {
	f.refunds = append(f.refunds, amount)
	return nil
}

type fixtures struct {
	db        *db.DB
	loans     core.ILoanStore
	events    core.IEventStore
	oracle    *fakeOracle
	treasury  *fakeTreasury
	ownership *fakeOwnership
	allowance *fakeAllowance
	now       time.Time
}

const (
	testRevnetID = uint64(7)
	nativeToken  = "0xee"
)

func newTestService(t *testing.T) (*loanService, *fixtures) {
	database := db.MustOpen(db.Config{
		Dialect: "sqlite3",
		Host:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	})
	require.Nil(t, db.Migrate(database))
	t.Cleanup(func() { database.Close() })

	fx := &fixtures{
		db:     database,
		loans:  loanstore.New(database),
		events: event.New(database),
		oracle: &fakeOracle{
			surplus: core.NewAmount(1000),
			supply:  core.NewAmount(1000),
		},
		treasury:  &fakeTreasury{},
		ownership: &fakeOwnership{owners: map[uint64]string{}},
		allowance: &fakeAllowance{},
		now:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	s := &loanService{
		db:          database,
		property:    propertystore.New(database),
		loans:       fx.loans,
		events:      fx.events,
		oracle:      fx.oracle,
		treasury:    fx.treasury,
		ownership:   fx.ownership,
		allowance:   fx.allowance,
		account:     "facility",
		nativeToken: nativeToken,
		protocolFee: &core.LoanSource{RevnetID: 9001, Terminal: "fee-terminal", Token: "usdc"},
		revenueFee:  &core.LoanSource{RevnetID: 9002, Terminal: "fee-terminal", Token: "usdc"},
		clock:       func() time.Time { return fx.now },
	}

	return s, fx
}

func testSource() *core.LoanSource {
	return &core.LoanSource{RevnetID: testRevnetID, Terminal: "terminal-1", Token: "usdc"}
}

func openRequest(amount, collateral uint64) *core.OpenRequest {
	return &core.OpenRequest{
		Caller:      "alice",
		RevnetID:    testRevnetID,
		Source:      testSource(),
		Amount:      core.NewAmount(amount),
		Collateral:  core.NewAmount(collateral),
		Beneficiary: "alice",
	}
}

func TestMaxBorrowable(t *testing.T) {
	ctx := context.Background()
	s, fx := newTestService(t)

	// 100 collateral against 1000 surplus and 1000 supply.
	got, err := s.MaxBorrowable(ctx, testRevnetID, core.NewAmount(100))
	require.Nil(t, err)
	assert.Equal(t, core.NewAmount(100), got)

	got, err = s.MaxBorrowable(ctx, testRevnetID, core.Amount{})
	require.Nil(t, err)
	assert.True(t, got.IsZero())

	fx.oracle.supply = core.Amount{}
	_, err = s.MaxBorrowable(ctx, testRevnetID, core.NewAmount(100))
	assert.Equal(t, core.ErrZeroBackingSupply, err)
}

func TestMaxBorrowableCountsOutstandingDebt(t *testing.T) {
	ctx := context.Background()
	s, fx := newTestService(t)
	fx.oracle.surplus = core.NewAmount(900)

	_, err := s.Open(ctx, openRequest(90, 100))
	require.Nil(t, err)

	// Lending out 90 moved value from the surplus into debt; the total
	// backing a new pledge sees must not shrink.
	fx.oracle.surplus = core.NewAmount(810)
	got, err := s.MaxBorrowable(ctx, testRevnetID, core.NewAmount(100))
	require.Nil(t, err)

	// 100 * (810 + 90) / (1000 + 100)
	assert.Equal(t, core.NewAmount(81), got)
}

func TestOpenValidations(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	req := openRequest(0, 100)
	_, err := s.Open(ctx, req)
	assert.Equal(t, core.ErrMissingAmount, err)

	req = openRequest(10, 100)
	req.PrepaidFeePercent = fees.MaxPrepaidFeePercent + 1
	_, err = s.Open(ctx, req)
	assert.Equal(t, core.ErrInvalidFee, err)

	req = openRequest(10, 100)
	req.Value = core.NewAmount(10)
	_, err = s.Open(ctx, req)
	assert.Equal(t, core.ErrNoValueExpected, err)
}

func TestOpenOverLimit(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.Open(ctx, openRequest(200, 100))
	assert.Equal(t, core.ErrInsufficientCollateral, err)
}

func TestOpenSplitsOriginationFees(t *testing.T) {
	ctx := context.Background()
	s, fx := newTestService(t)

	loan, err := s.Open(ctx, openRequest(100, 100))
	require.Nil(t, err)
	require.NotNil(t, loan)

	assert.Equal(t, "alice", fx.ownership.owners[loan.ID])

	pulls := fx.treasury.of("pull-allowance")
	require.Len(t, pulls, 1)
	assert.Equal(t, core.NewAmount(100), pulls[0].amount)
	assert.Equal(t, "facility", pulls[0].arg)

	// 2.5% protocol + 2.5% revenue on 100, truncated.
	pays := fx.treasury.of("pay")
	require.Len(t, pays, 2)
	assert.Equal(t, core.NewAmount(2), pays[0].amount)
	assert.Equal(t, core.NewAmount(2), pays[1].amount)

	transfers := fx.treasury.of("transfer")
	require.Len(t, transfers, 1)
	assert.Equal(t, core.NewAmount(96), transfers[0].amount)
	assert.Equal(t, "alice", transfers[0].arg)

	// Collateral escrowed by burning the caller's revnet tokens.
	burns := fx.treasury.of("burn")
	require.Len(t, burns, 1)
	assert.Equal(t, core.NewAmount(100), burns[0].amount)

	events, err := fx.events.FindByLoan(ctx, loan.ID)
	require.Nil(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, core.EventTypeBorrow, events[0].Type)
	assert.Equal(t, core.NewAmount(100), events[0].Amount)
}

func TestOpenKeepsAggregatesConsistent(t *testing.T) {
	ctx := context.Background()
	s, fx := newTestService(t)

	fx.oracle.surplus = core.NewAmount(10000)
	fx.oracle.supply = core.NewAmount(10000)

	_, err := s.Open(ctx, openRequest(100, 100))
	require.Nil(t, err)
	_, err = s.Open(ctx, openRequest(50, 200))
	require.Nil(t, err)

	// Same source twice registers once.
	sources, err := fx.loans.SourcesOf(ctx, testRevnetID)
	require.Nil(t, err)
	require.Len(t, sources, 1)

	src := testSource()
	total, err := fx.loans.TotalBorrowedFrom(ctx, testRevnetID, src.Terminal, src.Token)
	require.Nil(t, err)
	sum, err := fx.loans.SumBorrowedFrom(ctx, testRevnetID, src.Terminal, src.Token)
	require.Nil(t, err)
	assert.Equal(t, core.NewAmount(150), total)
	assert.Equal(t, total, sum)

	pledged, err := fx.loans.TotalCollateralOf(ctx, testRevnetID)
	require.Nil(t, err)
	pledgedSum, err := fx.loans.SumCollateralOf(ctx, testRevnetID)
	require.Nil(t, err)
	assert.Equal(t, core.NewAmount(300), pledged)
	assert.Equal(t, pledged, pledgedSum)
}

func TestAdjustGuards(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	loan, err := s.Open(ctx, openRequest(100, 100))
	require.Nil(t, err)

	_, err = s.Adjust(ctx, &core.AdjustRequest{
		Caller:        "mallory",
		LoanID:        loan.ID,
		NewAmount:     core.NewAmount(50),
		NewCollateral: core.NewAmount(100),
	})
	assert.Equal(t, core.ErrUnauthorized, err)

	// Borrowing more may not release collateral in the same call.
	_, err = s.Adjust(ctx, &core.AdjustRequest{
		Caller:        "alice",
		LoanID:        loan.ID,
		NewAmount:     core.NewAmount(150),
		NewCollateral: core.NewAmount(50),
	})
	assert.Equal(t, core.ErrBorrowExceedsLoan, err)

	// Paying down may not pledge more collateral in the same call.
	_, err = s.Adjust(ctx, &core.AdjustRequest{
		Caller:        "alice",
		LoanID:        loan.ID,
		NewAmount:     core.NewAmount(50),
		NewCollateral: core.NewAmount(150),
	})
	assert.Equal(t, core.ErrOperationForbidden, err)

	// A live amount cannot stand on zero collateral.
	_, err = s.Adjust(ctx, &core.AdjustRequest{
		Caller:        "alice",
		LoanID:        loan.ID,
		NewAmount:     core.NewAmount(50),
		NewCollateral: core.Amount{},
	})
	assert.Equal(t, core.ErrInsufficientCollateral, err)

	_, err = s.Adjust(ctx, &core.AdjustRequest{
		Caller:        "alice",
		LoanID:        loan.ID,
		NewAmount:     core.NewAmount(50),
		NewCollateral: core.NewAmount(100),
		Value:         core.NewAmount(50),
	})
	assert.Equal(t, core.ErrNoValueExpected, err)

	_, err = s.Adjust(ctx, &core.AdjustRequest{
		Caller: "alice",
		LoanID: loan.ID + 42,
	})
	assert.Equal(t, core.ErrLoanNotFound, err)
}

func TestFullPayoffClosesLoan(t *testing.T) {
	ctx := context.Background()
	s, fx := newTestService(t)

	loan, err := s.Open(ctx, openRequest(100, 100))
	require.Nil(t, err)

	// Immediate payoff: inside the (empty) prepaid window, so no fee.
	got, err := s.Adjust(ctx, &core.AdjustRequest{
		Caller:      "alice",
		LoanID:      loan.ID,
		Beneficiary: "alice",
		Allowance:   &core.Allowance{Token: loan.Token, Amount: core.NewAmount(100)},
	})
	require.Nil(t, err)
	assert.True(t, got.Closed())

	require.Len(t, fx.allowance.pulls, 1)
	assert.Equal(t, core.NewAmount(100), fx.allowance.pulls[0])
	assert.Len(t, fx.allowance.refunds, 0)

	adds := fx.treasury.of("add-to-balance")
	require.Len(t, adds, 1)
	assert.Equal(t, core.NewAmount(100), adds[0].amount)

	// Collateral minted back to the beneficiary.
	mints := fx.treasury.of("mint")
	require.Len(t, mints, 1)
	assert.Equal(t, core.NewAmount(100), mints[0].amount)
	assert.Equal(t, "alice", mints[0].arg)

	src := testSource()
	total, err := fx.loans.TotalBorrowedFrom(ctx, testRevnetID, src.Terminal, src.Token)
	require.Nil(t, err)
	assert.True(t, total.IsZero())

	pledged, err := fx.loans.TotalCollateralOf(ctx, testRevnetID)
	require.Nil(t, err)
	assert.True(t, pledged.IsZero())

	// Ownership burned on close; further adjustments bounce.
	_, ok := fx.ownership.owners[loan.ID]
	assert.False(t, ok)

	_, err = s.Adjust(ctx, &core.AdjustRequest{
		Caller: "alice",
		LoanID: loan.ID,
	})
	assert.Equal(t, core.ErrLoanNotFound, err)
}

func TestRepaymentFeeDecaysAndRefundsOverage(t *testing.T) {
	ctx := context.Background()
	s, fx := newTestService(t)

	fx.oracle.surplus = core.NewAmount(10000)
	fx.oracle.supply = core.NewAmount(10000)

	req := openRequest(1000, 1000)
	req.PrepaidFeePercent = 100 // 10%, buys a fifth of the horizon fee-free
	loan, err := s.Open(ctx, req)
	require.Nil(t, err)

	// Origination: 25 protocol + 25 revenue + 100 prepaid, 850 out.
	transfers := fx.treasury.of("transfer")
	require.Len(t, transfers, 1)
	assert.Equal(t, core.NewAmount(850), transfers[0].amount)

	// Inside the prepaid window: no fee on pay-down.
	fx.now = loan.CreatedAt.Add(365 * 24 * time.Hour)
	_, err = s.Adjust(ctx, &core.AdjustRequest{
		Caller:        "alice",
		LoanID:        loan.ID,
		NewAmount:     core.NewAmount(900),
		NewCollateral: core.NewAmount(1000),
		Beneficiary:   "alice",
		Allowance:     &core.Allowance{Token: loan.Token, Amount: core.NewAmount(100)},
	})
	require.Nil(t, err)
	assert.Len(t, fx.allowance.refunds, 0)

	// Halfway to the horizon: fee is delta*1825/3650 - delta*100/1000.
	fx.now = loan.CreatedAt.Add(1825 * 24 * time.Hour)
	_, err = s.Adjust(ctx, &core.AdjustRequest{
		Caller:        "alice",
		LoanID:        loan.ID,
		NewAmount:     core.NewAmount(400),
		NewCollateral: core.NewAmount(1000),
		Beneficiary:   "alice",
		Allowance:     &core.Allowance{Token: loan.Token, Amount: core.NewAmount(750)},
	})
	require.Nil(t, err)

	// delta 500, fee 200, needed 700; 750 tendered, 50 back.
	require.Len(t, fx.allowance.pulls, 2)
	assert.Equal(t, core.NewAmount(750), fx.allowance.pulls[1])
	require.Len(t, fx.allowance.refunds, 1)
	assert.Equal(t, core.NewAmount(50), fx.allowance.refunds[0])

	adds := fx.treasury.of("add-to-balance")
	require.Len(t, adds, 2)
	assert.Equal(t, core.NewAmount(500), adds[1].amount)

	src := testSource()
	total, err := fx.loans.TotalBorrowedFrom(ctx, testRevnetID, src.Terminal, src.Token)
	require.Nil(t, err)
	assert.Equal(t, core.NewAmount(400), total)
}

func TestRepaymentRejectsShortTender(t *testing.T) {
	ctx := context.Background()
	s, fx := newTestService(t)

	fx.oracle.surplus = core.NewAmount(10000)
	fx.oracle.supply = core.NewAmount(10000)

	loan, err := s.Open(ctx, openRequest(1000, 1000))
	require.Nil(t, err)

	fx.now = loan.CreatedAt.Add(1825 * 24 * time.Hour)

	// delta 500 at halfway costs 250 in fees; 700 is short.
	_, err = s.Adjust(ctx, &core.AdjustRequest{
		Caller:        "alice",
		LoanID:        loan.ID,
		NewAmount:     core.NewAmount(500),
		NewCollateral: core.NewAmount(1000),
		Allowance:     &core.Allowance{Token: loan.Token, Amount: core.NewAmount(700)},
	})
	assert.Equal(t, core.ErrExcessiveAllowance, err)
	assert.Len(t, fx.allowance.pulls, 0)
}

func TestRepaymentFailsAtHorizon(t *testing.T) {
	ctx := context.Background()
	s, fx := newTestService(t)

	loan, err := s.Open(ctx, openRequest(100, 100))
	require.Nil(t, err)

	fx.now = loan.CreatedAt.Add(fees.LiquidationDuration)
	_, err = s.Adjust(ctx, &core.AdjustRequest{
		Caller:        "alice",
		LoanID:        loan.ID,
		NewCollateral: core.NewAmount(100),
		Allowance:     &core.Allowance{Token: loan.Token, Amount: core.NewAmount(200)},
	})
	assert.Equal(t, core.ErrLoanExpired, err)
}

func TestFeeDeliveryFailureDoesNotAbort(t *testing.T) {
	ctx := context.Background()
	s, fx := newTestService(t)

	fx.treasury.failPay = fmt.Errorf("terminal unreachable")

	loan, err := s.Open(ctx, openRequest(100, 100))
	require.Nil(t, err)
	require.NotNil(t, loan)

	// Fees were skipped, the borrow itself went through untouched.
	assert.Len(t, fx.treasury.of("pay"), 0)
	transfers := fx.treasury.of("transfer")
	require.Len(t, transfers, 1)
	assert.Equal(t, core.NewAmount(96), transfers[0].amount)
}

func seedLoan(t *testing.T, fx *fixtures, createdAt time.Time, amount, collateral uint64, owner string) *core.Loan {
	t.Helper()
	ctx := context.Background()

	src := testSource()
	loan := &core.Loan{
		RevnetID:   testRevnetID,
		Terminal:   src.Terminal,
		Token:      src.Token,
		Amount:     core.NewAmount(amount),
		Collateral: core.NewAmount(collateral),
		CreatedAt:  createdAt,
	}
	require.Nil(t, fx.loans.Create(ctx, fx.db, loan))

	if _, err := fx.loans.RegisterSource(ctx, fx.db, src); err != nil {
		t.Fatal(err)
	}
	if amount > 0 {
		require.Nil(t, fx.loans.AddBorrowed(ctx, fx.db, src, core.NewAmount(amount)))
	}
	if collateral > 0 {
		require.Nil(t, fx.loans.AddCollateral(ctx, fx.db, testRevnetID, core.NewAmount(collateral)))
	}
	if owner != "" {
		fx.ownership.owners[loan.ID] = owner
	}

	return loan
}

func TestLiquidateExpired(t *testing.T) {
	ctx := context.Background()
	s, fx := newTestService(t)

	expired := fx.now.Add(-fees.LiquidationDuration - 24*time.Hour)

	first := seedLoan(t, fx, expired, 100, 100, "alice")
	// Paid off long ago; the sweep passes over it.
	closed := seedLoan(t, fx, expired.Add(time.Hour), 0, 0, "")
	second := seedLoan(t, fx, expired.Add(2*time.Hour), 50, 80, "bob")
	fresh := seedLoan(t, fx, fx.now.Add(-24*time.Hour), 10, 20, "carol")

	count, err := s.LiquidateExpired(ctx, 10)
	require.Nil(t, err)
	assert.Equal(t, 2, count)

	for _, id := range []uint64{first.ID, closed.ID, second.ID} {
		got, err := fx.loans.Find(ctx, id)
		require.Nil(t, err)
		assert.True(t, got.Closed())
	}

	got, err := fx.loans.Find(ctx, fresh.ID)
	require.Nil(t, err)
	assert.False(t, got.Closed())

	// Only the fresh loan's aggregates remain.
	src := testSource()
	total, err := fx.loans.TotalBorrowedFrom(ctx, testRevnetID, src.Terminal, src.Token)
	require.Nil(t, err)
	assert.Equal(t, core.NewAmount(10), total)

	pledged, err := fx.loans.TotalCollateralOf(ctx, testRevnetID)
	require.Nil(t, err)
	assert.Equal(t, core.NewAmount(20), pledged)

	// Forfeited positions lose their ownership tokens.
	_, ok := fx.ownership.owners[first.ID]
	assert.False(t, ok)
	_, ok = fx.ownership.owners[second.ID]
	assert.False(t, ok)
	assert.Equal(t, "carol", fx.ownership.owners[fresh.ID])

	events, err := fx.events.FindByLoan(ctx, second.ID)
	require.Nil(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, core.EventTypeLiquidate, events[0].Type)
	// The event snapshots what was outstanding when forfeited.
	assert.Equal(t, core.NewAmount(50), events[0].Amount)
	assert.Equal(t, core.NewAmount(80), events[0].Collateral)

	// A second sweep finds nothing past the watermark.
	count, err = s.LiquidateExpired(ctx, 10)
	require.Nil(t, err)
	assert.Equal(t, 0, count)
}

func TestLiquidateExpiredHonorsBatchLimit(t *testing.T) {
	ctx := context.Background()
	s, fx := newTestService(t)

	expired := fx.now.Add(-fees.LiquidationDuration - 24*time.Hour)
	first := seedLoan(t, fx, expired, 100, 100, "alice")
	second := seedLoan(t, fx, expired.Add(time.Hour), 50, 80, "bob")

	count, err := s.LiquidateExpired(ctx, 1)
	require.Nil(t, err)
	assert.Equal(t, 1, count)

	got, err := fx.loans.Find(ctx, first.ID)
	require.Nil(t, err)
	assert.True(t, got.Closed())

	got, err = fx.loans.Find(ctx, second.ID)
	require.Nil(t, err)
	assert.False(t, got.Closed())

	// The watermark picks up where the last batch stopped.
	count, err = s.LiquidateExpired(ctx, 1)
	require.Nil(t, err)
	assert.Equal(t, 1, count)

	got, err = fx.loans.Find(ctx, second.ID)
	require.Nil(t, err)
	assert.True(t, got.Closed())
}
