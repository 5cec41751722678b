package portfolio

import (
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// SectorSummary aggregates the holdings of one sector.
type SectorSummary struct {
	Sector            string  `json:"sector"`
	TotalInvestment   float64 `json:"totalInvestment"`
	TotalPresentValue float64 `json:"totalPresentValue"`
	GainLoss          float64 `json:"gainLoss"`
	Weight            float64 `json:"weight"`
}

// SectorSummaries groups holdings by sector, largest investment first.
// Holdings without a sector are left out and blank figures count as zero.
func SectorSummaries(holdings []Holding) []SectorSummary {
	withSector := lo.Filter(holdings, func(h Holding, _ int) bool {
		return h.Sector != ""
	})
	bySector := lo.GroupBy(withSector, func(h Holding) string { return h.Sector })
	sectors := lo.Uniq(lo.Map(withSector, func(h Holding, _ int) string { return h.Sector }))

	summaries := lo.Map(sectors, func(sector string, _ int) SectorSummary {
		members := bySector[sector]
		investment := sumOf(members, func(h Holding) *float64 { return h.Investment })
		present := sumOf(members, func(h Holding) *float64 { return h.PresentValue })
		weight := sumOf(members, func(h Holding) *float64 { return h.PortfolioWeight })

		return SectorSummary{
			Sector:            sector,
			TotalInvestment:   investment.InexactFloat64(),
			TotalPresentValue: present.InexactFloat64(),
			GainLoss:          present.Sub(investment).InexactFloat64(),
			Weight:            weight.InexactFloat64(),
		}
	})

	slices.SortStableFunc(summaries, func(a, b SectorSummary) int {
		switch {
		case a.TotalInvestment > b.TotalInvestment:
			return -1
		case a.TotalInvestment < b.TotalInvestment:
			return 1
		default:
			return 0
		}
	})
	return summaries
}

func sumOf(holdings []Holding, field func(Holding) *float64) decimal.Decimal {
	return lo.Reduce(holdings, func(acc decimal.Decimal, h Holding, _ int) decimal.Decimal {
		return acc.Add(decimal.NewFromFloat(lo.FromPtr(field(h))))
	}, decimal.Zero)
}
