// Package serializer shapes the dashboard payload assembled by the API layer
// into the typed response sent to clients.
//
// Validate is the only entry point. It checks the raw nested structure,
// converts every position's raw token balances into token units and pulls
// each product's health ratio out of its zkLend groups. Validation is
// all-or-nothing: on error no partial response is returned.
package serializer

import "time"

// PositionData flags whether a position is used as collateral, as debt, or both.
type PositionData struct {
	Collateral bool `json:"collateral"`
	Debt       bool `json:"debt"`
}

// PositionDetail is one collateral/debt position inside a product.
// TotalBalances maps a token address to its balance in token units.
type PositionDetail struct {
	Data          PositionData      `json:"data"`
	TokenAddress  *string           `json:"tokenAddress"`
	TotalBalances map[string]string `json:"totalBalances"`
}

func (p PositionDetail) IsCollateral() bool { return p.Data.Collateral }

func (p PositionDetail) IsDebt() bool { return p.Data.Debt }

// Product groups the positions a user holds in one zkLend product.
// HealthRatio is nil when the product had no group "1".
type Product struct {
	Name        string           `json:"name"`
	HealthRatio *string          `json:"healthRatio"`
	Positions   []PositionDetail `json:"positions"`
}

type ZkLendPositionResponse struct {
	Products []Product `json:"products"`
}

// DashboardResponse is the full dashboard payload. Balances, Multipliers and
// StartDates are keyed by asset symbol and are not cross-checked: an asset
// may appear in one map and not the others.
type DashboardResponse struct {
	Balances       map[string]interface{} `json:"balances"`
	Multipliers    map[string]*int        `json:"multipliers"`
	StartDates     map[string]*time.Time  `json:"startDates"`
	ZkLendPosition ZkLendPositionResponse `json:"zklendPosition"`
}
