package portfolio

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when no holding carries the requested ticker.
var ErrNotFound = errors.New("holding not found")

// Holding is one row of the portfolio seed. Figures are pass-through values
// from the source spreadsheet; nil means the cell was blank.
type Holding struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Sector          string   `json:"sector"`
	PurchasePrice   *float64 `json:"purchasePrice"`
	Quantity        *float64 `json:"quantity"`
	Investment      *float64 `json:"investment"`
	PortfolioWeight *float64 `json:"portfolioWeight"`
	Ticker          Ticker   `json:"ticker"`
	CMP             *float64 `json:"cmp"`
	PresentValue    *float64 `json:"presentValue"`
	GainLoss        *float64 `json:"gainLoss"`
	GainLossPct     *float64 `json:"gainLossPct"`
	MarketCap       *float64 `json:"marketCap"`
	PERatio         *float64 `json:"peRatio"`
	LatestEarnings  *float64 `json:"latestEarnings"`
	RevenueTTM      *float64 `json:"revenueTtm"`
	EBITDATTM       *float64 `json:"ebitdaTtm"`
	EBITDAMargin    *float64 `json:"ebitdaMargin"`
	PAT             *float64 `json:"pat"`
	PATMargin       *float64 `json:"patMargin"`
	CFORecent       *float64 `json:"cfoRecent"`
	CFOFiveYear     *float64 `json:"cfoFiveYear"`
	FCFFiveYear     *float64 `json:"fcfFiveYear"`
	DebtToEquity    *float64 `json:"debtToEquity"`
	BookValue       *float64 `json:"bookValue"`
	GrowthRevenue   *float64 `json:"growthRevenue"`
	GrowthEBITDA    *float64 `json:"growthEbitda"`
	GrowthProfit    *float64 `json:"growthProfit"`
	GrowthMarketCap *float64 `json:"growthMarketCap"`
	PriceToSales    *float64 `json:"priceToSales"`
	CFOToEBITDA     *float64 `json:"cfoToEbitda"`
	CFOToPAT        *float64 `json:"cfoToPat"`
	PriceToBook     *float64 `json:"priceToBook"`
	Stage2          *string  `json:"stage2"`
	SalePrice       *float64 `json:"salePrice"`
	Notes           *string  `json:"notes"`
}

// Portfolio is the static seed: holdings plus the time they were exported.
type Portfolio struct {
	UpdatedAt time.Time `json:"updatedAt"`
	Currency  string    `json:"currency"`
	Holdings  []Holding `json:"holdings"`
}

// FindByTicker returns the holding whose ticker matches t, ignoring case.
func (p *Portfolio) FindByTicker(t string) (Holding, error) {
	for _, h := range p.Holdings {
		if h.Ticker.IsZero() {
			continue
		}
		if strings.EqualFold(h.Ticker.String(), t) {
			return h, nil
		}
	}
	return Holding{}, ErrNotFound
}
