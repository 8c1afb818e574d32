package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trading-journal/internal/analytics"
	"trading-journal/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger is the gorm-backed trade store. It satisfies analytics.Ledger.
type Ledger struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Stats counts what the journal currently holds.
type Stats struct {
	Members      int64 `json:"members"`
	Trades       int64 `json:"trades"`
	OpenTrades   int64 `json:"open_trades"`
	ClosedTrades int64 `json:"closed_trades"`
}

// New creates a ledger over an already migrated database.
func New(db *gorm.DB, logger *zap.Logger) *Ledger {
	return &Ledger{
		db:     db,
		logger: logger.Named("ledger"),
	}
}

func closedScope(db *gorm.DB) *gorm.DB {
	return db.Where("sell_date IS NOT NULL AND sell_price IS NOT NULL")
}

// Trades returns the closed trades matching f ordered by sell date and id.
// Member and exit-date bounds are applied in SQL.
func (l *Ledger) Trades(ctx context.Context, f analytics.Filter) ([]models.Trade, error) {
	trades := []models.Trade{}
	if f.Inverted() {
		return trades, nil
	}

	q := l.db.WithContext(ctx).Scopes(closedScope)
	if f.MemberID != nil {
		q = q.Where("member_id = ?", *f.MemberID)
	}
	if f.StartDate != nil {
		q = q.Where("sell_date >= ?", analytics.Day(*f.StartDate))
	}
	if f.EndDate != nil {
		q = q.Where("sell_date < ?", analytics.Day(*f.EndDate).AddDate(0, 0, 1))
	}

	if err := q.Order("sell_date, id").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to query trades (%s): %w", f, err)
	}
	return trades, nil
}

// MemberExists reports whether a member with the given id is stored.
func (l *Ledger) MemberExists(ctx context.Context, memberID uint) (bool, error) {
	var n int64
	if err := l.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", memberID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to look up member %d: %w", memberID, err)
	}
	return n > 0, nil
}

// CreateTrade normalizes, validates and stores t. A zero MemberID is replaced
// by the default member.
func (l *Ledger) CreateTrade(ctx context.Context, t *models.Trade) error {
	Normalize(t)
	if err := Validate(t); err != nil {
		return err
	}

	if t.MemberID == 0 {
		m, err := l.DefaultMember(ctx)
		if err != nil {
			return err
		}
		t.MemberID = m.ID
	} else if ok, err := l.MemberExists(ctx, t.MemberID); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: id %d", ErrMemberNotFound, t.MemberID)
	}

	if t.InstrumentTypeID != nil {
		var n int64
		if err := l.db.WithContext(ctx).Model(&models.InstrumentType{}).Where("id = ?", *t.InstrumentTypeID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to look up instrument type %d: %w", *t.InstrumentTypeID, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: unknown instrument type %d", ErrInvalidTrade, *t.InstrumentTypeID)
		}
	}

	if err := l.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create trade for %s: %w", t.Symbol, err)
	}
	l.logger.Info("Trade recorded",
		zap.Uint("id", t.ID),
		zap.Uint("member_id", t.MemberID),
		zap.String("symbol", t.Symbol),
		zap.Bool("closed", t.IsClosed()))
	return nil
}

// CloseTrade records the exit of an open trade. A trade is closed at most once.
func (l *Ledger) CloseTrade(ctx context.Context, id uint, sellDate time.Time, sellPrice decimal.Decimal) (*models.Trade, error) {
	var trade models.Trade
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&trade, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrTradeNotFound, id)
			}
			return fmt.Errorf("failed to load trade %d: %w", id, err)
		}
		if trade.SellDate != nil || trade.SellPrice.Valid {
			return fmt.Errorf("%w: id %d", ErrAlreadyClosed, id)
		}

		day := analytics.Day(sellDate)
		trade.SellDate = &day
		trade.SellPrice = decimal.NewNullDecimal(sellPrice)
		if err := Validate(&trade); err != nil {
			return err
		}

		res := tx.Model(&models.Trade{}).
			Where("id = ? AND sell_date IS NULL", id).
			Updates(map[string]interface{}{"sell_date": trade.SellDate, "sell_price": trade.SellPrice})
		if res.Error != nil {
			return fmt.Errorf("failed to close trade %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: id %d", ErrAlreadyClosed, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Trade closed",
		zap.Uint("id", id),
		zap.String("symbol", trade.Symbol),
		zap.String("sell_date", trade.SellDate.Format(analytics.DateLayout)),
		zap.String("sell_price", sellPrice.String()))
	return &trade, nil
}

// GetTrade loads one trade by id.
func (l *Ledger) GetTrade(ctx context.Context, id uint) (*models.Trade, error) {
	var trade models.Trade
	if err := l.db.WithContext(ctx).First(&trade, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTradeNotFound, id)
		}
		return nil, fmt.Errorf("failed to load trade %d: %w", id, err)
	}
	return &trade, nil
}

// ListTrades returns every trade, open or closed, newest entry first.
// A nil memberID lists all members.
func (l *Ledger) ListTrades(ctx context.Context, memberID *uint) ([]models.Trade, error) {
	trades := []models.Trade{}
	q := l.db.WithContext(ctx)
	if memberID != nil {
		q = q.Where("member_id = ?", *memberID)
	}
	if err := q.Order("buy_date DESC, id DESC").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// DeleteTrade removes a trade.
func (l *Ledger) DeleteTrade(ctx context.Context, id uint) error {
	res := l.db.WithContext(ctx).Delete(&models.Trade{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete trade %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrTradeNotFound, id)
	}
	l.logger.Info("Trade deleted", zap.Uint("id", id))
	return nil
}

// CreateMember adds an active member. Names are unique ignoring case.
func (l *Ledger) CreateMember(ctx context.Context, name string) (*models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidMember)
	}

	if _, err := l.MemberByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateMember, name)
	} else if !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}

	member := models.Member{Name: name, Active: true}
	if err := l.db.WithContext(ctx).Create(&member).Error; err != nil {
		return nil, fmt.Errorf("failed to create member '%s': %w", name, err)
	}
	l.logger.Info("Member created", zap.Uint("id", member.ID), zap.String("name", name))
	return &member, nil
}

// ListMembers returns all members in creation order.
func (l *Ledger) ListMembers(ctx context.Context) ([]models.Member, error) {
	members := []models.Member{}
	if err := l.db.WithContext(ctx).Order("id").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// MemberByName finds a member ignoring case.
func (l *Ledger) MemberByName(ctx context.Context, name string) (*models.Member, error) {
	var member models.Member
	err := l.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, name)
		}
		return nil, fmt.Errorf("failed to look up member '%s': %w", name, err)
	}
	return &member, nil
}

// DefaultMember returns the first active member, the owner of trades
// recorded without one.
func (l *Ledger) DefaultMember(ctx context.Context) (*models.Member, error) {
	var member models.Member
	err := l.db.WithContext(ctx).Where("active = ?", true).Order("id").First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no active member to default to", ErrMemberNotFound)
		}
		return nil, fmt.Errorf("failed to look up default member: %w", err)
	}
	return &member, nil
}

// ListInstrumentTypes returns the known instrument types.
func (l *Ledger) ListInstrumentTypes(ctx context.Context) ([]models.InstrumentType, error) {
	types := []models.InstrumentType{}
	if err := l.db.WithContext(ctx).Order("id").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list instrument types: %w", err)
	}
	return types, nil
}

// Stats counts members and trades.
func (l *Ledger) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	db := l.db.WithContext(ctx)
	if err := db.Model(&models.Member{}).Count(&s.Members).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to count members: %w", err)
	}
	if err := db.Model(&models.Trade{}).Count(&s.Trades).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to count trades: %w", err)
	}
	if err := db.Model(&models.Trade{}).Scopes(closedScope).Count(&s.ClosedTrades).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to count closed trades: %w", err)
	}
	s.OpenTrades = s.Trades - s.ClosedTrades
	return s, nil
}

// Backup writes a consistent copy of the database to path, which must not exist.
func (l *Ledger) Backup(ctx context.Context, path string) error {
	if err := l.db.WithContext(ctx).Exec("VACUUM INTO ?", path).Error; err != nil {
		return fmt.Errorf("failed to back up database to %s: %w", path, err)
	}
	l.logger.Info("Database backed up", zap.String("path", path))
	return nil
}
