package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus enum constants
const (
	QuotationPending   = "pending"
	QuotationConfirmed = "confirmed"
	QuotationExpired   = "expired"
)

// DefaultWeightTolerancePercent is used when a quotation carries no tolerance.
const DefaultWeightTolerancePercent = 10

// Quotation is a previously computed price for a prospective shipment.
// Only pending rows with valid_until >= now are eligible for matching.
type Quotation struct {
	ID                     int64           `gorm:"primaryKey" json:"id"`
	CustomerName           string          `gorm:"type:varchar(255);not null;index" json:"customer_name"`
	CustomerCUIT           *string         `gorm:"column:customer_cuit;type:varchar(20);index" json:"customer_cuit"`
	Destination            string          `gorm:"type:varchar(120)" json:"destination"`
	WeightKg               decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"weight_kg"`
	PackageQuantity        int             `gorm:"not null;default:0" json:"package_quantity"`
	WeightTolerancePercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:10" json:"weight_tolerance_percent"`
	TotalPrice             decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_price"`
	Status                 string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ValidUntil             time.Time       `gorm:"not null;index" json:"valid_until"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}
