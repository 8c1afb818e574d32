// Package csvio moves trades in and out of the journal as CSV files.
package csvio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"trading-journal/internal/analytics"
	"trading-journal/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Store is the part of the ledger the CSV transfer needs.
type Store interface {
	CreateTrade(ctx context.Context, t *models.Trade) error
	MemberByName(ctx context.Context, name string) (*models.Member, error)
	ListMembers(ctx context.Context) ([]models.Member, error)
	ListTrades(ctx context.Context, memberID *uint) ([]models.Trade, error)
}

// Row is one CSV line. Every column is optional in the header; a file with
// only Member, Symbol, Entry Date, Entry Price, Quantity and Notes imports
// open trades.
type Row struct {
	Member     string `csv:"Member"`
	Symbol     string `csv:"Symbol"`
	Exchange   string `csv:"Exchange"`
	EntryDate  string `csv:"Entry Date"`
	EntryPrice string `csv:"Entry Price"`
	Quantity   string `csv:"Quantity"`
	ExitDate   string `csv:"Exit Date"`
	ExitPrice  string `csv:"Exit Price"`
	Split      string `csv:"Split"`
	SplitRatio string `csv:"Split Ratio"`
	Notes      string `csv:"Notes"`
}

// ImportResult reports what an import did. Errors carry the file line number.
type ImportResult struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}

// Import reads trades from r and stores them one by one. Bad rows are
// counted and reported but do not stop the import. The returned error is
// only set when r is not readable CSV.
func Import(ctx context.Context, store Store, r io.Reader) (*ImportResult, error) {
	result := &ImportResult{Errors: []string{}}

	rows := []*Row{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	members := make(map[string]uint)
	for i, row := range rows {
		line := i + 2 // header is line 1

		trade, err := row.trade()
		if err == nil {
			trade.MemberID, err = resolveMember(ctx, store, members, row.Member)
		}
		if err == nil {
			err = store.CreateTrade(ctx, trade)
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// resolveMember maps a member name to its id. A blank name resolves to 0,
// which the ledger replaces with the default member.
func resolveMember(ctx context.Context, store Store, cache map[string]uint, name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}
	key := strings.ToLower(name)
	if id, ok := cache[key]; ok {
		return id, nil
	}
	m, err := store.MemberByName(ctx, name)
	if err != nil {
		return 0, err
	}
	cache[key] = m.ID
	return m.ID, nil
}

func (r *Row) trade() (*models.Trade, error) {
	t := &models.Trade{
		Symbol:   r.Symbol,
		Exchange: r.Exchange,
		Notes:    r.Notes,
	}

	buyDate, err := analytics.ParseDate(r.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("entry date: %w", err)
	}
	if buyDate == nil {
		return nil, errors.New("entry date is required")
	}
	t.BuyDate = *buyDate

	if t.BuyPrice, err = parseAmount("entry price", r.EntryPrice); err != nil {
		return nil, err
	}

	qty, err := decimal.NewFromString(strings.TrimSpace(r.Quantity))
	if err != nil || !qty.IsInteger() {
		return nil, fmt.Errorf("quantity %q is not a whole number", r.Quantity)
	}
	t.Quantity = qty.IntPart()

	if t.SellDate, err = analytics.ParseDate(r.ExitDate); err != nil {
		return nil, fmt.Errorf("exit date: %w", err)
	}
	if strings.TrimSpace(r.ExitPrice) != "" {
		price, err := parseAmount("exit price", r.ExitPrice)
		if err != nil {
			return nil, err
		}
		t.SellPrice = decimal.NewNullDecimal(price)
	}

	if t.IsSplit, err = parseFlag(r.Split); err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	if strings.TrimSpace(r.SplitRatio) != "" {
		if t.SplitRatio, err = parseAmount("split ratio", r.SplitRatio); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%s is required", field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q is not a number", field, s)
	}
	return d, nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no", "n":
		return false, nil
	case "yes", "y":
		return true, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}

// Export writes the trades of one member, or of everyone when memberID is
// nil, as CSV ordered by entry date. The output can be imported again.
func Export(ctx context.Context, store Store, w io.Writer, memberID *uint) error {
	members, err := store.ListMembers(ctx)
	if err != nil {
		return err
	}
	names := make(map[uint]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}

	trades, err := store.ListTrades(ctx, memberID)
	if err != nil {
		return err
	}
	sort.SliceStable(trades, func(i, j int) bool {
		if !trades[i].BuyDate.Equal(trades[j].BuyDate) {
			return trades[i].BuyDate.Before(trades[j].BuyDate)
		}
		return trades[i].ID < trades[j].ID
	})

	rows := make([]*Row, 0, len(trades))
	for i := range trades {
		rows = append(rows, toRow(&trades[i], names[trades[i].MemberID]))
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func toRow(t *models.Trade, member string) *Row {
	r := &Row{
		Member:     member,
		Symbol:     t.Symbol,
		Exchange:   t.Exchange,
		EntryDate:  t.BuyDate.Format(analytics.DateLayout),
		EntryPrice: t.BuyPrice.String(),
		Quantity:   strconv.FormatInt(t.Quantity, 10),
		Split:      "no",
		Notes:      t.Notes,
	}
	if t.SellDate != nil {
		r.ExitDate = t.SellDate.Format(analytics.DateLayout)
	}
	if t.SellPrice.Valid {
		r.ExitPrice = t.SellPrice.Decimal.String()
	}
	if t.IsSplit {
		r.Split = "yes"
	}
	if !t.SplitRatio.IsZero() {
		r.SplitRatio = t.SplitRatio.String()
	}
	return r
}
