package portfolio

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Column positions in the exported holdings sheet. The sheet's own header
// cells are mostly blank, so columns are addressed by position.
const (
	colNo = iota
	colName
	colPurchasePrice
	colQuantity
	colInvestment
	colPortfolioWeight
	colTicker
	colCMP
	colPresentValue
	colGainLoss
	colGainLossPct
	colMarketCap
	colPERatio
	colLatestEarnings
	colRevenueTTM
	colEBITDATTM
	colEBITDAMargin
	colPAT
	colPATMargin
	colCFORecent
	colCFOFiveYear
	colFCFFiveYear
	colDebtToEquity
	colBookValue
	colGrowthRevenue
	colGrowthEBITDA
	colGrowthProfit
	colGrowthMarketCap
	colPriceToSales
	colCFOToEBITDA
	colCFOToPAT
	colPriceToBook
	colStage2
	colSalePrice
	colNotes
)

const (
	defaultSector   = "Uncategorized"
	defaultCurrency = "INR"
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// ImportWorkbook reads holdings from a spreadsheet export. An empty sheet
// name selects the first sheet.
func ImportWorkbook(path, sheet string) (*Portfolio, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	return &Portfolio{
		UpdatedAt: time.Now().UTC(),
		Currency:  defaultCurrency,
		Holdings:  ParseRows(rows),
	}, nil
}

// ParseRows converts sheet rows into holdings. The first row is the header.
// A row whose name mentions "sector" starts a new sector group; rows without
// a name or a numeric serial number are skipped.
func ParseRows(rows [][]string) []Holding {
	var holdings []Holding
	sector := ""

	for i, row := range rows {
		if i == 0 {
			continue
		}

		name := cell(row, colName)
		if name != "" && strings.Contains(strings.ToLower(name), "sector") {
			sector = strings.TrimSpace(strings.ReplaceAll(name, "Sector", ""))
			continue
		}

		no := cell(row, colNo)
		if name == "" || no == "" {
			continue
		}
		id, err := strconv.ParseFloat(no, 64)
		if err != nil {
			continue
		}

		h := Holding{
			ID:              int(id),
			Name:            name,
			Sector:          sector,
			PurchasePrice:   number(row, colPurchasePrice),
			Quantity:        number(row, colQuantity),
			Investment:      number(row, colInvestment),
			PortfolioWeight: number(row, colPortfolioWeight),
			Ticker:          tickerCell(cell(row, colTicker)),
			CMP:             number(row, colCMP),
			PresentValue:    number(row, colPresentValue),
			GainLoss:        number(row, colGainLoss),
			GainLossPct:     number(row, colGainLossPct),
			MarketCap:       number(row, colMarketCap),
			PERatio:         number(row, colPERatio),
			LatestEarnings:  number(row, colLatestEarnings),
			RevenueTTM:      number(row, colRevenueTTM),
			EBITDATTM:       number(row, colEBITDATTM),
			EBITDAMargin:    number(row, colEBITDAMargin),
			PAT:             number(row, colPAT),
			PATMargin:       number(row, colPATMargin),
			CFORecent:       number(row, colCFORecent),
			CFOFiveYear:     number(row, colCFOFiveYear),
			FCFFiveYear:     number(row, colFCFFiveYear),
			DebtToEquity:    number(row, colDebtToEquity),
			BookValue:       number(row, colBookValue),
			GrowthRevenue:   number(row, colGrowthRevenue),
			GrowthEBITDA:    number(row, colGrowthEBITDA),
			GrowthProfit:    number(row, colGrowthProfit),
			GrowthMarketCap: number(row, colGrowthMarketCap),
			PriceToSales:    number(row, colPriceToSales),
			CFOToEBITDA:     number(row, colCFOToEBITDA),
			CFOToPAT:        number(row, colCFOToPAT),
			PriceToBook:     number(row, colPriceToBook),
			Stage2:          text(row, colStage2),
			SalePrice:       number(row, colSalePrice),
			Notes:           text(row, colNotes),
		}
		if h.Sector == "" {
			h.Sector = defaultSector
		}
		holdings = append(holdings, h)
	}
	return holdings
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func number(row []string, col int) *float64 {
	s := strings.ReplaceAll(cell(row, col), ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func text(row []string, col int) *string {
	s := cell(row, col)
	if s == "" {
		return nil
	}
	return &s
}

func tickerCell(s string) Ticker {
	s = strings.TrimSuffix(s, ".0")
	if digitsOnly.MatchString(s) {
		code, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return CodeTicker(code)
		}
	}
	return SymbolTicker(s)
}
