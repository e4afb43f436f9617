package orders

import "gopkg.in/yaml.v3"

// Order types
const (
	TypeGive             = "give"
	TypeTake             = "take"
	TypeBuild            = "build"
	TypeProduce          = "produce"
	TypeCancelProduction = "cancel_production"
	TypeUpgrade          = "upgrade"
	TypeStartUpgrade     = "start_upgrade"
	TypeCancelUpgrade    = "cancel_upgrade"
	TypeTransport        = "transport"
	TypeStopTransport    = "stop_transport"
	TypeTrade            = "trade"
	TypeStopTrade        = "stop_trade"
	TypeFinishTrade      = "finish_trade"
	TypeResearch         = "research"
	TypeCancelResearch   = "cancel_research"
	TypeBid              = "bid"
	TypeCancelBid        = "cancel_bid"
	TypeRecruit          = "recruit"
)

// Envelope is one order as written in a scenario file
type Envelope struct {
	Type   string    `yaml:"type"`
	Params yaml.Node `yaml:"params"`
}

// --- Order parameters ---

// AmountParams names a catalog type and a quantity
type AmountParams struct {
	Type   string `yaml:"type"`
	Amount int    `yaml:"amount"`
}

// ProduceParams targets a formula at a production center
type ProduceParams struct {
	Center  int    `yaml:"center"`
	Formula string `yaml:"formula"`
	Count   int    `yaml:"count"`
}

// TargetParams selects something upgradable: a production center by
// index, or a unit by group name and index
type TargetParams struct {
	Center *int   `yaml:"center"`
	Group  string `yaml:"group"`
	Unit   int    `yaml:"unit"`
}

// ResourceParams moves an amount of one resource
type ResourceParams struct {
	Resource string `yaml:"resource"`
	Amount   int    `yaml:"amount"`
}

// SettleParams completes a sale to another player
type SettleParams struct {
	Resource string `yaml:"resource"`
	Amount   int    `yaml:"amount"`
	Buyer    string `yaml:"buyer"`
	Price    int    `yaml:"price"`
}

// TechnologyParams names a technology
type TechnologyParams struct {
	Technology string `yaml:"technology"`
}

// RecruitParams names a unit type and a count
type RecruitParams struct {
	Type  string `yaml:"type"`
	Count int    `yaml:"count"`
}
