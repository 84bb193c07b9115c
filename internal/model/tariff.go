package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TariffType enum constants
const (
	TariffTypeStandard = "standard"
	TariffTypeVolume   = "volume"
	TariffTypeOther    = "other"
)

// Tariff is a priced weight bracket for a route.
// Brackets of the same (origin, destination) pair do not overlap, except for volume tariffs.
type Tariff struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	Origin       string          `gorm:"type:varchar(120);not null;index:idx_tariff_route" json:"origin"`
	Destination  string          `gorm:"type:varchar(120);not null;index:idx_tariff_route" json:"destination"`
	TariffType   string          `gorm:"type:varchar(20);not null;default:'standard';index" json:"tariff_type"` // standard, volume, other
	WeightFromKg decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"weight_from_kg"`
	WeightToKg   decimal.Decimal `gorm:"type:decimal(12,2);not null;index" json:"weight_to_kg"` // Inclusive upper bound
	Price        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`              // List price for the bracket
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
