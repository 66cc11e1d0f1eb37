package loan

import (
	"time"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"

	"revloans/core"
)

type loanService struct {
	db       *db.DB
	property property.Store

	loans  core.ILoanStore
	events core.IEventStore

	oracle    core.IOracleService
	treasury  core.ITreasuryService
	ownership core.IOwnershipService
	allowance core.IAllowanceService

	account     string
	nativeToken string
	protocolFee *core.LoanSource
	revenueFee  *core.LoanSource

	clock func() time.Time
}

// New new loan service
func New(
	cfg *core.Config,
	db *db.DB,
	propertyStore property.Store,
	loanStore core.ILoanStore,
	eventStore core.IEventStore,
	oracleSrv core.IOracleService,
	treasurySrv core.ITreasuryService,
	ownershipSrv core.IOwnershipService,
	allowanceSrv core.IAllowanceService,
) core.ILoanService {
	return &loanService{
		db:          db,
		property:    propertyStore,
		loans:       loanStore,
		events:      eventStore,
		oracle:      oracleSrv,
		treasury:    treasurySrv,
		ownership:   ownershipSrv,
		allowance:   allowanceSrv,
		account:     cfg.App.Account,
		nativeToken: cfg.App.NativeToken,
		protocolFee: cfg.Fees.Protocol.Source(),
		revenueFee:  cfg.Fees.Revenue.Source(),
		clock:       time.Now,
	}
}
