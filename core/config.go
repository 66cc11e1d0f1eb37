package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config revloans config
type Config struct {
	App    App       `json:"app"`
	DB     db.Config `json:"db"`
	Node   Node      `json:"node"`
	Fees   Fees      `json:"fees"`
	Worker Worker    `json:"worker"`
}

// App app config
type App struct {
	// Account the facility's own account; borrowed funds are pulled
	// here before fees are split off.
	Account string `json:"account"`
	// NativeToken token address treated as the chain's native asset.
	NativeToken string `json:"native_token"`
	Location    string `json:"location"`
}

// Node issuance-protocol node the collaborator adapters talk to.
type Node struct {
	Endpoint  string `json:"endpoint"`
	AuthToken string `json:"auth_token"`
}

// FeeSource destination a fee is paid into.
type FeeSource struct {
	RevnetID uint64 `json:"revnet_id"`
	Terminal string `json:"terminal"`
	Token    string `json:"token"`
}

// Source source as a LoanSource.
func (s FeeSource) Source() *LoanSource {
	return &LoanSource{RevnetID: s.RevnetID, Terminal: s.Terminal, Token: s.Token}
}

// Fees origination-fee destinations. The prepaid fee always goes to
// the loan's own source, so it needs no config.
type Fees struct {
	Protocol FeeSource `json:"protocol"`
	Revenue  FeeSource `json:"revenue"`
}

// Worker worker config
type Worker struct {
	// LiquidationBatch max positions examined per sweep.
	LiquidationBatch int `json:"liquidation_batch"`
	// LiquidationInterval cron spec, e.g. "@every 1m".
	LiquidationInterval string `json:"liquidation_interval"`
}
