package api

import (
	"fmt"
	"time"

	"trading-journal/internal/analytics"
	"trading-journal/internal/csvio"
	"trading-journal/internal/ledger"
	"trading-journal/internal/models"

	"github.com/shopspring/decimal"
)

// Monetary values go out as JSON numbers and dates as YYYY-MM-DD.

type MonthlyPerformance struct {
	Month           string  `json:"month"`
	TotalTrades     int     `json:"total_trades"`
	WinningTrades   int     `json:"winning_trades"`
	LosingTrades    int     `json:"losing_trades"`
	TotalInvestment float64 `json:"total_investment"`
	NetProfit       float64 `json:"net_profit"`
	ROI             float64 `json:"roi"`
}

type GrowthPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type SymbolRank struct {
	Symbol      string  `json:"symbol"`
	TradeCount  int     `json:"trade_count"`
	AvgProfit   float64 `json:"avg_profit"`
	TotalProfit float64 `json:"total_profit"`
}

type Summary struct {
	TotalTrades     int     `json:"total_trades"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	WinRate         float64 `json:"win_rate"`
	NetProfit       float64 `json:"net_profit"`
	TotalInvestment float64 `json:"total_investment"`
	ROI             float64 `json:"roi"`
	CurrentCapital  float64 `json:"current_capital"`
	MedianProfit    float64 `json:"median_profit"`
	ProfitStdDev    float64 `json:"profit_std_dev"`
}

type DashboardResponse struct {
	MemberID   *uint                `json:"member_id"`
	StartDate  *string              `json:"start_date"`
	EndDate    *string              `json:"end_date"`
	Summary    Summary              `json:"summary"`
	Monthly    []MonthlyPerformance `json:"monthly"`
	Growth     []GrowthPoint        `json:"growth"`
	TopSymbols []SymbolRank         `json:"top_symbols"`
}

type Trade struct {
	ID               uint     `json:"id"`
	MemberID         uint     `json:"member_id"`
	InstrumentTypeID *uint    `json:"instrument_type_id"`
	Symbol           string   `json:"symbol"`
	Exchange         string   `json:"exchange"`
	BuyDate          string   `json:"buy_date"`
	BuyPrice         float64  `json:"buy_price"`
	Quantity         int64    `json:"quantity"`
	SellDate         *string  `json:"sell_date"`
	SellPrice        *float64 `json:"sell_price"`
	IsSplit          bool     `json:"is_split"`
	SplitRatio       float64  `json:"split_ratio"`
	Notes            string   `json:"notes"`
	Status           string   `json:"status"`
}

// CreateTradeRequest is the body of POST /api/trades. Prices are read as
// decimals and accept both JSON numbers and strings. isSplit is the older
// spelling of is_split and is still accepted.
type CreateTradeRequest struct {
	MemberID         *uint            `json:"member_id"`
	InstrumentTypeID *uint            `json:"instrument_type_id"`
	Symbol           string           `json:"symbol" binding:"required"`
	Exchange         string           `json:"exchange"`
	BuyDate          string           `json:"buy_date" binding:"required"`
	BuyPrice         *decimal.Decimal `json:"buy_price"`
	Quantity         int64            `json:"quantity" binding:"required"`
	SellDate         string           `json:"sell_date"`
	SellPrice        *decimal.Decimal `json:"sell_price"`
	IsSplit          bool             `json:"is_split"`
	LegacyIsSplit    *bool            `json:"isSplit"`
	SplitRatio       decimal.Decimal  `json:"split_ratio"`
	Notes            string           `json:"notes"`
}

type CloseTradeRequest struct {
	SellDate  string           `json:"sell_date" binding:"required"`
	SellPrice *decimal.Decimal `json:"sell_price"`
}

// CreateMemberRequest accepts the name as name or member_name.
type CreateMemberRequest struct {
	Name       string `json:"name"`
	MemberName string `json:"member_name"`
}

// Member carries the name under both name and member_name.
type Member struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	MemberName string `json:"member_name"`
	Active     bool   `json:"active"`
}

type InstrumentType struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ImportResponse is the body of POST /api/trades/import.
type ImportResponse = csvio.ImportResult

// DatabaseImportResponse is the body of POST /api/database/import.
type DatabaseImportResponse struct {
	Message string       `json:"message"`
	Journal ledger.Stats `json:"journal"`
}

type StatusResponse struct {
	Version   string       `json:"version"`
	StartTime string       `json:"start_time"`
	Uptime    string       `json:"uptime"`
	Journal   ledger.Stats `json:"journal"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(analytics.DateLayout)
	return &s
}

func NewMonthlyPerformance(buckets []analytics.MonthlyBucket) []MonthlyPerformance {
	out := make([]MonthlyPerformance, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, MonthlyPerformance{
			Month:           b.Month,
			TotalTrades:     b.TotalTrades,
			WinningTrades:   b.WinningTrades,
			LosingTrades:    b.LosingTrades,
			TotalInvestment: b.TotalInvestment.InexactFloat64(),
			NetProfit:       b.NetProfit.InexactFloat64(),
			ROI:             b.ROI().InexactFloat64(),
		})
	}
	return out
}

func NewGrowthPoints(points []analytics.GrowthPoint) []GrowthPoint {
	out := make([]GrowthPoint, 0, len(points))
	for _, p := range points {
		out = append(out, GrowthPoint{
			Date:  p.Date.Format(analytics.DateLayout),
			Value: p.Value.InexactFloat64(),
		})
	}
	return out
}

func NewSymbolRanks(ranks []analytics.SymbolRank) []SymbolRank {
	out := make([]SymbolRank, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, SymbolRank{
			Symbol:      r.Symbol,
			TradeCount:  r.TradeCount,
			AvgProfit:   r.AvgProfit.InexactFloat64(),
			TotalProfit: r.TotalProfit.InexactFloat64(),
		})
	}
	return out
}

func NewSummary(s analytics.Summary) Summary {
	return Summary{
		TotalTrades:     s.TotalTrades,
		Wins:            s.Wins,
		Losses:          s.Losses,
		WinRate:         s.WinRate,
		NetProfit:       s.NetProfit.InexactFloat64(),
		TotalInvestment: s.TotalInvestment.InexactFloat64(),
		ROI:             s.ROI.InexactFloat64(),
		CurrentCapital:  s.CurrentCapital.InexactFloat64(),
		MedianProfit:    s.MedianProfit,
		ProfitStdDev:    s.ProfitStdDev,
	}
}

func NewDashboard(d *analytics.Dashboard) DashboardResponse {
	return DashboardResponse{
		MemberID:   d.Filter.MemberID,
		StartDate:  dateString(d.Filter.StartDate),
		EndDate:    dateString(d.Filter.EndDate),
		Summary:    NewSummary(d.Summary),
		Monthly:    NewMonthlyPerformance(d.Monthly),
		Growth:     NewGrowthPoints(d.Growth),
		TopSymbols: NewSymbolRanks(d.TopSymbols),
	}
}

func newTrade(t *models.Trade) Trade {
	out := Trade{
		ID:               t.ID,
		MemberID:         t.MemberID,
		InstrumentTypeID: t.InstrumentTypeID,
		Symbol:           t.Symbol,
		Exchange:         t.Exchange,
		BuyDate:          t.BuyDate.Format(analytics.DateLayout),
		BuyPrice:         t.BuyPrice.InexactFloat64(),
		Quantity:         t.Quantity,
		SellDate:         dateString(t.SellDate),
		IsSplit:          t.IsSplit,
		SplitRatio:       t.SplitRatio.InexactFloat64(),
		Notes:            t.Notes,
		Status:           "open",
	}
	if t.SellPrice.Valid {
		v := t.SellPrice.Decimal.InexactFloat64()
		out.SellPrice = &v
	}
	if t.IsClosed() {
		out.Status = "closed"
	}
	return out
}

func newMember(m *models.Member) Member {
	return Member{ID: m.ID, Name: m.Name, MemberName: m.Name, Active: m.Active}
}

func newTrades(trades []models.Trade) []Trade {
	out := make([]Trade, 0, len(trades))
	for i := range trades {
		out = append(out, newTrade(&trades[i]))
	}
	return out
}

// toModel converts the request into an unsaved trade. Validation of the
// record invariants is left to the ledger.
func (r CreateTradeRequest) toModel() (*models.Trade, error) {
	if r.BuyPrice == nil {
		return nil, fmt.Errorf("%w: buy_price is required", errBadRequest)
	}
	buyDate, err := analytics.ParseDate(r.BuyDate)
	if err != nil {
		return nil, err
	}
	sellDate, err := analytics.ParseDate(r.SellDate)
	if err != nil {
		return nil, err
	}

	t := &models.Trade{
		InstrumentTypeID: r.InstrumentTypeID,
		Symbol:           r.Symbol,
		Exchange:         r.Exchange,
		BuyPrice:         *r.BuyPrice,
		Quantity:         r.Quantity,
		SellDate:         sellDate,
		IsSplit:          r.IsSplit || (r.LegacyIsSplit != nil && *r.LegacyIsSplit),
		SplitRatio:       r.SplitRatio,
		Notes:            r.Notes,
	}
	if buyDate != nil {
		t.BuyDate = *buyDate
	}
	if r.MemberID != nil {
		t.MemberID = *r.MemberID
	}
	if r.SellPrice != nil {
		t.SellPrice = decimal.NewNullDecimal(*r.SellPrice)
	}
	return t, nil
}
