package loan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revloans/core"
)

func newTestDB(t *testing.T) *db.DB {
	database := db.MustOpen(db.Config{
		Dialect: "sqlite3",
		Host:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	})
	require.Nil(t, db.Migrate(database))
	t.Cleanup(func() { database.Close() })
	return database
}

func source(revnetID uint64) *core.LoanSource {
	return &core.LoanSource{RevnetID: revnetID, Terminal: "terminal-1", Token: "usdc"}
}

func TestLoanCreateFindUpdate(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	store := New(database)

	loan := &core.Loan{
		RevnetID:   1,
		Terminal:   "terminal-1",
		Token:      "usdc",
		Amount:     core.NewAmount(100),
		Collateral: core.NewAmount(200),
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.Nil(t, store.Create(ctx, database, loan))
	assert.NotZero(t, loan.ID)

	got, err := store.Find(ctx, loan.ID)
	require.Nil(t, err)
	assert.Equal(t, core.NewAmount(100), got.Amount)
	assert.Equal(t, core.NewAmount(200), got.Collateral)

	_, err = store.Find(ctx, loan.ID+1)
	assert.Equal(t, core.ErrLoanNotFound, err)

	got.Amount = core.NewAmount(50)
	require.Nil(t, store.Update(ctx, database, got))
	assert.Equal(t, int64(1), got.Version)

	// Updating from a stale version must not apply.
	stale := *got
	stale.Version = 0
	stale.Amount = core.NewAmount(999)
	assert.Equal(t, ErrVersionConflict, store.Update(ctx, database, &stale))

	got, err = store.Find(ctx, loan.ID)
	require.Nil(t, err)
	assert.Equal(t, core.NewAmount(50), got.Amount)
	assert.Equal(t, int64(1), got.Version)
}

func TestListFrom(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	store := New(database)

	for i := 0; i < 5; i++ {
		require.Nil(t, store.Create(ctx, database, &core.Loan{RevnetID: 1}))
	}

	loans, err := store.ListFrom(ctx, 0, 3)
	require.Nil(t, err)
	require.Len(t, loans, 3)
	assert.Equal(t, uint64(1), loans[0].ID)
	assert.Equal(t, uint64(3), loans[2].ID)

	loans, err = store.ListFrom(ctx, 3, 10)
	require.Nil(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, uint64(4), loans[0].ID)

	count, err := store.CountOf(ctx, 1)
	require.Nil(t, err)
	assert.Equal(t, int64(5), count)
}

func TestRegisterSourceDedups(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	store := New(database)

	created, err := store.RegisterSource(ctx, database, source(1))
	require.Nil(t, err)
	assert.True(t, created)

	created, err = store.RegisterSource(ctx, database, source(1))
	require.Nil(t, err)
	assert.False(t, created)

	other := source(1)
	other.Token = "dai"
	created, err = store.RegisterSource(ctx, database, other)
	require.Nil(t, err)
	assert.True(t, created)

	// Ordered by first use.
	sources, err := store.SourcesOf(ctx, 1)
	require.Nil(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "usdc", sources[0].Token)
	assert.Equal(t, "dai", sources[1].Token)

	sources, err = store.SourcesOf(ctx, 2)
	require.Nil(t, err)
	assert.Len(t, sources, 0)
}

func TestBorrowedAggregates(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	store := New(database)

	src := source(1)

	// Missing rows read as zero.
	total, err := store.TotalBorrowedFrom(ctx, 1, src.Terminal, src.Token)
	require.Nil(t, err)
	assert.True(t, total.IsZero())

	require.Nil(t, store.AddBorrowed(ctx, database, src, core.NewAmount(100)))
	require.Nil(t, store.AddBorrowed(ctx, database, src, core.NewAmount(50)))
	require.Nil(t, store.SubBorrowed(ctx, database, src, core.NewAmount(30)))

	total, err = store.TotalBorrowedFrom(ctx, 1, src.Terminal, src.Token)
	require.Nil(t, err)
	assert.Equal(t, core.NewAmount(120), total)

	// Per-source isolation.
	other := source(1)
	other.Token = "dai"
	require.Nil(t, store.AddBorrowed(ctx, database, other, core.NewAmount(7)))

	total, err = store.TotalBorrowedFrom(ctx, 1, other.Terminal, other.Token)
	require.Nil(t, err)
	assert.Equal(t, core.NewAmount(7), total)
}

func TestCollateralAggregates(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	store := New(database)

	total, err := store.TotalCollateralOf(ctx, 1)
	require.Nil(t, err)
	assert.True(t, total.IsZero())

	require.Nil(t, store.AddCollateral(ctx, database, 1, core.NewAmount(500)))
	require.Nil(t, store.SubCollateral(ctx, database, 1, core.NewAmount(200)))

	total, err = store.TotalCollateralOf(ctx, 1)
	require.Nil(t, err)
	assert.Equal(t, core.NewAmount(300), total)

	total, err = store.TotalCollateralOf(ctx, 2)
	require.Nil(t, err)
	assert.True(t, total.IsZero())
}

func TestSumsMatchRecords(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	store := New(database)

	for _, amount := range []uint64{100, 50, 25} {
		loan := &core.Loan{
			RevnetID:   1,
			Terminal:   "terminal-1",
			Token:      "usdc",
			Amount:     core.NewAmount(amount),
			Collateral: core.NewAmount(amount * 2),
		}
		require.Nil(t, store.Create(ctx, database, loan))
	}

	sum, err := store.SumBorrowedFrom(ctx, 1, "terminal-1", "usdc")
	require.Nil(t, err)
	assert.Equal(t, core.NewAmount(175), sum)

	sum, err = store.SumCollateralOf(ctx, 1)
	require.Nil(t, err)
	assert.Equal(t, core.NewAmount(350), sum)
}
