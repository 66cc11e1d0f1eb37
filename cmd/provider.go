package cmd

import (
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"

	"revloans/core"
	allowanceservice "revloans/service/allowance"
	loanservice "revloans/service/loan"
	oracleservice "revloans/service/oracle"
	ownershipservice "revloans/service/ownership"
	treasuryservice "revloans/service/treasury"
	"revloans/store/event"
	"revloans/store/loan"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideLoanStore(db *db.DB) core.ILoanStore {
	return loan.New(db)
}

func provideEventStore(db *db.DB) core.IEventStore {
	return event.New(db)
}

// ------------------service------------------------------------

func provideOracleService() core.IOracleService {
	return oracleservice.New(provideConfig())
}

func provideTreasuryService() core.ITreasuryService {
	return treasuryservice.New(provideConfig())
}

func provideOwnershipService() core.IOwnershipService {
	return ownershipservice.New(provideConfig())
}

func provideAllowanceService() core.IAllowanceService {
	return allowanceservice.New(provideConfig())
}

func provideLoanService(
	db *db.DB,
	propertyStore property.Store,
	loanStore core.ILoanStore,
	eventStore core.IEventStore,
) core.ILoanService {
	return loanservice.New(
		provideConfig(),
		db,
		propertyStore,
		loanStore,
		eventStore,
		provideOracleService(),
		provideTreasuryService(),
		provideOwnershipService(),
		provideAllowanceService(),
	)
}
