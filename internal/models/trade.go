package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Trade is a single buy, optionally followed by a sell, of one instrument.
// A trade without SellDate/SellPrice is an open position.
type Trade struct {
	gorm.Model
	MemberID         uint                `gorm:"index;not null" json:"member_id"`
	InstrumentTypeID *uint               `json:"instrument_type_id,omitempty"`
	Symbol           string              `gorm:"index;not null" json:"symbol"`
	Exchange         string              `json:"exchange"`
	BuyDate          time.Time           `gorm:"not null" json:"buy_date"`
	BuyPrice         decimal.Decimal     `gorm:"type:text;not null" json:"buy_price"`
	Quantity         int64               `gorm:"not null" json:"quantity"`
	SellDate         *time.Time          `gorm:"index" json:"sell_date,omitempty"`
	SellPrice        decimal.NullDecimal `gorm:"type:text" json:"sell_price"`
	IsSplit          bool                `json:"is_split"`
	// SplitRatio is the number of units each originally bought unit became.
	// Zero means the stored quantity and price are already split-adjusted.
	SplitRatio decimal.Decimal `gorm:"type:text" json:"split_ratio"`
	Notes      string          `json:"notes"`
}

// IsClosed reports whether both exit fields are recorded.
func (t *Trade) IsClosed() bool {
	return t.SellDate != nil && t.SellPrice.Valid
}
