package pricing

import (
	"context"
	"fmt"
	"strings"

	"freightdesk/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// pathway is the closed set of commercial pathways a shipment can take.
type pathway interface {
	price(ctx context.Context, e *Engine, req Request) (*Result, error)
}

// contractPath prices contracted accounts with their tariff modifier (Path A).
type contractPath struct {
	client *model.Entity
	terms  *model.CommercialTerms
}

// quotationPath honors a pending quotation verbatim (Path B).
type quotationPath struct {
	client    *model.Entity
	quotation *model.Quotation
}

// generalPath is the spot tariff for everyone else (Path C).
type generalPath struct {
	client *model.Entity
}

func (p contractPath) price(ctx context.Context, e *Engine, req Request) (*Result, error) {
	modifier := decimal.Zero
	insuranceRate := e.cfg.DefaultInsuranceRate
	tariffType := "base"
	origin, destination := req.Origin, req.Destination

	if p.terms != nil {
		modifier = p.terms.TariffModifier
		insuranceRate = p.terms.InsuranceRate
		if p.terms.TariffType != "" {
			tariffType = p.terms.TariffType
		}
		if p.terms.Origin != nil && strings.TrimSpace(*p.terms.Origin) != "" {
			origin = *p.terms.Origin
		}
		if p.terms.Destination != nil && strings.TrimSpace(*p.terms.Destination) != "" {
			destination = *p.terms.Destination
		}
	}

	description := "Cliente con contrato - Facturar a fin de mes"
	if !modifier.IsZero() {
		description += fmt.Sprintf(" (%s%%)", modifier)
	}

	res := &Result{
		Path:     PathContract,
		PathName: "Cuenta Corriente",
		Tag:      Tag{Color: "green", Label: "CTA CTE", Description: description},
		Client:   clientInfo(p.client, p.client.LegalName, model.ClientTypeRegular),
		Pricing:  Pricing{Source: SourceContract, TariffID: p.client.AssignedTariffID},
		Debug:    &Debug{Input: req},
	}
	if p.terms != nil {
		res.CommercialTerms = &TermsInfo{
			TariffType:     p.terms.TariffType,
			TariffModifier: modifier,
			InsuranceRate:  insuranceRate,
			CreditDays:     p.terms.CreditDays,
		}
	}

	weight := ResolveWeightWithFactor(req.WeightKg, req.VolumeM3, e.cfg.VolumetricFactor)
	res.Debug.Weight = &weight
	if !weight.ChargeableKg.IsPositive() {
		return res, nil
	}

	match, err := e.tariffs.Find(ctx, origin, destination, weight.ChargeableKg)
	if err != nil {
		return nil, err
	}
	res.Debug.Tariff = &match
	if match.Tariff == nil {
		return res, nil
	}
	if res.Pricing.TariffID == nil {
		res.Pricing.TariffID = ptr(match.Tariff.ID)
	}

	list := match.Tariff.Price
	b := &Breakdown{
		ListFreight:   ptr(list),
		ChargedWeight: ptr(weight.ChargeableKg),
		TariffType:    tariffType,
	}
	final := list
	if !modifier.IsZero() {
		adjustment := list.Mul(modifier).Div(hundred)
		b.Discount = ptr(adjustment)
		final = list.Add(adjustment)
	}
	b.FinalFreight = ptr(final)

	total := final
	if insurance := insuranceOn(req.DeclaredValue, insuranceRate); insurance.IsPositive() {
		b.Insurance = ptr(insurance)
		total = total.Add(insurance)
	}

	res.Pricing.Price = ptr(total)
	res.Pricing.Breakdown = b
	res.Debug.Formula = fmt.Sprintf("%s × (1 + %s/100) + %s × %s = %s",
		list, modifier, sanitize(req.DeclaredValue), insuranceRate, total)
	return res, nil
}

func (p quotationPath) price(_ context.Context, _ *Engine, req Request) (*Result, error) {
	q := p.quotation

	tolerance := q.WeightTolerancePercent
	if !tolerance.IsPositive() {
		tolerance = decimal.NewFromInt(model.DefaultWeightTolerancePercent)
	}

	var reasons []string
	actualWeight := sanitize(req.WeightKg)
	if q.WeightKg.IsPositive() && actualWeight.IsPositive() {
		deviation := actualWeight.Sub(q.WeightKg).Abs().Div(q.WeightKg).Mul(hundred)
		if deviation.GreaterThan(tolerance) {
			reasons = append(reasons, fmt.Sprintf("Peso real (%skg) difiere %s%% del cotizado (%skg)",
				actualWeight, deviation.StringFixed(1), q.WeightKg))
		}
	}
	if q.PackageQuantity > 0 && req.PackageQuantity > 0 && q.PackageQuantity != req.PackageQuantity {
		reasons = append(reasons, fmt.Sprintf("Bultos reales (%d) difieren de cotizados (%d)",
			req.PackageQuantity, q.PackageQuantity))
	}

	description := "Precio pre-acordado - Cobrar antes de entregar"
	if len(reasons) > 0 {
		description = "Verificar carga vs cotización"
	}

	client := clientInfo(p.client, q.CustomerName, model.ClientTypeOccasional)
	if p.client == nil {
		client.CUIT = q.CustomerCUIT
	}

	price := q.TotalPrice
	validUntil := q.ValidUntil
	res := &Result{
		Path:     PathQuotation,
		PathName: "Presupuesto Bot",
		Tag:      Tag{Color: "yellow", Label: fmt.Sprintf("PRESUPUESTO #%d", q.ID), Description: description},
		Client:   client,
		Pricing: Pricing{
			Source:      SourceQuotation,
			Price:       &price,
			QuotationID: ptr(q.ID),
			ValidUntil:  &validUntil,
		},
		Quotation: &QuotationInfo{
			ID:               q.ID,
			DeclaredWeight:   q.WeightKg,
			DeclaredPackages: q.PackageQuantity,
			Tolerance:        tolerance,
		},
		Debug: &Debug{Input: req, Formula: fmt.Sprintf("precio cotizado #%d = %s", q.ID, q.TotalPrice)},
	}
	if len(reasons) > 0 {
		res.Validation = &Validation{NeedsReview: true, Reason: strings.Join(reasons, "; ")}
	}
	return res, nil
}

func (p generalPath) price(ctx context.Context, e *Engine, req Request) (*Result, error) {
	name := req.RecipientName
	if name == "" {
		name = "Cliente nuevo"
	}

	res := &Result{
		Path:     PathGeneral,
		PathName: "Tarifa General",
		Tag:      Tag{Color: "red", Label: "TARIFA GRAL", Description: "Sin cotización previa - Cobrar ANTES de entregar"},
		Client:   clientInfo(p.client, name, model.ClientTypeOccasional),
		Pricing:  Pricing{Source: SourceGeneral},
		Validation: &Validation{
			NeedsReview: true,
			Reason:      "Sin cotización previa - Confirmar precio con cliente",
		},
		Debug: &Debug{Input: req},
	}

	weight := ResolveWeightWithFactor(req.WeightKg, req.VolumeM3, e.cfg.VolumetricFactor)
	res.Debug.Weight = &weight
	if !weight.ChargeableKg.IsPositive() {
		return res, nil
	}

	match, err := e.tariffs.Find(ctx, req.Origin, req.Destination, weight.ChargeableKg)
	if err != nil {
		return nil, err
	}
	res.Debug.Tariff = &match

	b := &Breakdown{ChargedWeight: ptr(weight.ChargeableKg), TariffType: model.TariffTypeStandard}
	var freight decimal.Decimal
	if match.Tariff != nil {
		freight = match.Tariff.Price
		res.Pricing.TariffID = ptr(match.Tariff.ID)
		if match.Tariff.TariffType != "" {
			b.TariffType = match.Tariff.TariffType
		}
		res.Debug.Formula = fmt.Sprintf("tramo %s kg = %s", match.Tariff.WeightToKg, freight)
	} else {
		freight = weight.ChargeableKg.Mul(e.cfg.FallbackRatePerKg)
		b.TariffType = "por_kg"
		res.Debug.Formula = fmt.Sprintf("%s kg × %s/kg = %s", weight.ChargeableKg, e.cfg.FallbackRatePerKg, freight)
	}
	b.ListFreight = ptr(freight)
	b.FinalFreight = ptr(freight)

	total := freight
	if insurance := insuranceOn(req.DeclaredValue, e.cfg.DefaultInsuranceRate); insurance.IsPositive() {
		b.Insurance = ptr(insurance)
		total = total.Add(insurance)
		res.Debug.Formula += fmt.Sprintf(" + seguro %s", insurance)
	}

	res.Pricing.Price = ptr(total)
	res.Pricing.Breakdown = b
	return res, nil
}

func insuranceOn(declaredValue float64, rate decimal.Decimal) decimal.Decimal {
	declared := sanitize(declaredValue)
	if !declared.IsPositive() || !rate.IsPositive() {
		return decimal.Zero
	}
	return declared.Mul(rate)
}
