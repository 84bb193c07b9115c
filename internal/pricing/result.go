package pricing

import (
	"time"

	"freightdesk/internal/model"

	"github.com/shopspring/decimal"
)

// Path identifies the commercial pathway of a result.
type Path string

const (
	PathContract  Path = "A"
	PathQuotation Path = "B"
	PathGeneral   Path = "C"
)

// Pricing sources
const (
	SourceContract  = "contract"
	SourceQuotation = "quotation"
	SourceGeneral   = "general"
)

// Result is built fresh per request and never persisted.
type Result struct {
	Path            Path           `json:"path"`
	PathName        string         `json:"pathName"`
	Tag             Tag            `json:"tag"`
	Client          ClientInfo     `json:"client"`
	Pricing         Pricing        `json:"pricing"`
	Quotation       *QuotationInfo `json:"quotation,omitempty"`
	Validation      *Validation    `json:"validation,omitempty"`
	CommercialTerms *TermsInfo     `json:"commercialTerms,omitempty"`
	Debug           *Debug         `json:"debug,omitempty"`
}

// NeedsReview reports whether a human must confirm the price before dispatch.
func (r *Result) NeedsReview() bool {
	return r.Validation != nil && r.Validation.NeedsReview
}

type Tag struct {
	Color       string `json:"color"` // green, yellow, red
	Label       string `json:"label"`
	Description string `json:"description"`
}

type ClientInfo struct {
	ID    *int64  `json:"id"`
	Name  string  `json:"name"`
	CUIT  *string `json:"cuit"`
	IsNew bool    `json:"isNew"`
	Type  string  `json:"type"` // regular, occasional
}

type Pricing struct {
	Source      string           `json:"source"`
	Price       *decimal.Decimal `json:"price"` // null when nothing could be priced
	Breakdown   *Breakdown       `json:"breakdown,omitempty"`
	QuotationID *int64           `json:"quotationId,omitempty"`
	TariffID    *int64           `json:"tariffId,omitempty"`
	ValidUntil  *time.Time       `json:"validUntil,omitempty"`
}

// Breakdown lists the line items of a computed price.
type Breakdown struct {
	ListFreight   *decimal.Decimal `json:"flete_lista,omitempty"`
	Discount      *decimal.Decimal `json:"descuento,omitempty"` // Negative for discounts
	FinalFreight  *decimal.Decimal `json:"flete_final,omitempty"`
	Insurance     *decimal.Decimal `json:"seguro,omitempty"`
	ChargedWeight *decimal.Decimal `json:"peso_cobrado,omitempty"`
	TariffType    string           `json:"tipo_tarifa,omitempty"`
}

type QuotationInfo struct {
	ID               int64           `json:"id"`
	DeclaredWeight   decimal.Decimal `json:"declaredWeight"`
	DeclaredPackages int             `json:"declaredPackages"`
	Tolerance        decimal.Decimal `json:"tolerance"`
}

type Validation struct {
	NeedsReview bool   `json:"needsReview"`
	Reason      string `json:"reason,omitempty"`
}

type TermsInfo struct {
	TariffType     string          `json:"tariffType"`
	TariffModifier decimal.Decimal `json:"tariffModifier"`
	InsuranceRate  decimal.Decimal `json:"insuranceRate"`
	CreditDays     int             `json:"creditDays"`
}

// Debug is an audit trace derived from the computation; it never affects price.
type Debug struct {
	Input   Request         `json:"input"`
	Weight  *WeightDecision `json:"weight,omitempty"`
	Tariff  *TariffMatch    `json:"tariff,omitempty"`
	Formula string          `json:"formula,omitempty"`
}

func clientInfo(client *model.Entity, fallbackName, clientType string) ClientInfo {
	if client == nil {
		return ClientInfo{Name: fallbackName, IsNew: true, Type: clientType}
	}
	id := client.ID
	return ClientInfo{
		ID:    &id,
		Name:  client.LegalName,
		CUIT:  client.TaxID,
		IsNew: false,
		Type:  clientType,
	}
}

func ptr[T any](v T) *T {
	return &v
}
