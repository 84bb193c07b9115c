package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClientType enum constants
const (
	ClientTypeRegular    = "regular"
	ClientTypeOccasional = "occasional"
)

// PaymentTerms enum constants
const (
	PaymentCuentaCorriente = "cuenta_corriente"
	PaymentContado         = "contado"
)

// DefaultInsuranceRate is 8 per mil of the declared value.
var DefaultInsuranceRate = decimal.RequireFromString("0.008")

// Entity represents a counterparty: sender, recipient or both
type Entity struct {
	ID               int64             `gorm:"primaryKey" json:"id"`
	LegalName        string            `gorm:"type:varchar(255);not null;index" json:"legal_name"`
	TaxID            *string           `gorm:"type:varchar(20);index" json:"tax_id"` // CUIT, nullable
	ClientType       string            `gorm:"type:varchar(20);not null;default:'occasional'" json:"client_type"`
	PaymentTerms     string            `gorm:"type:varchar(30);not null;default:'contado'" json:"payment_terms"`
	AssignedTariffID *int64            `gorm:"index" json:"assigned_tariff_id"` // Accounting display only
	CommercialTerms  []CommercialTerms `gorm:"foreignKey:EntityID;constraint:OnDelete:CASCADE" json:"commercial_terms,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	DeletedAt        gorm.DeletedAt    `gorm:"index" json:"-"`
}

// CommercialTerms is a contracted pricing agreement. At most one active row per entity.
type CommercialTerms struct {
	ID             int64           `gorm:"primaryKey" json:"id"`
	EntityID       int64           `gorm:"not null;index" json:"entity_id"`
	TariffType     string          `gorm:"type:varchar(30);not null;default:'base'" json:"tariff_type"`
	TariffModifier decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0" json:"tariff_modifier"`     // Signed percentage, -15 = 15% off
	InsuranceRate  decimal.Decimal `gorm:"type:decimal(8,5);not null;default:0.008" json:"insurance_rate"` // Fraction of declared value
	CreditDays     int             `gorm:"not null;default:0" json:"credit_days"`
	Origin         *string         `gorm:"type:varchar(120)" json:"origin"` // Route override, nullable
	Destination    *string         `gorm:"type:varchar(120)" json:"destination"`
	IsActive       bool            `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName keeps the historical table name used by the commercial back-office.
func (CommercialTerms) TableName() string {
	return "client_commercial_terms"
}
