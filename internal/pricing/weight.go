package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// VolumetricFactor is the land-freight density assumption: one cubic meter
// is billed as if it weighed 300 kg.
const VolumetricFactor = 300

// WeightBucketStep is the granularity of priced tariff brackets, in kg.
const WeightBucketStep = 10

// WeightDecision explains which weight figure is billable.
type WeightDecision struct {
	RealKg         decimal.Decimal `json:"realKg"`
	VolumetricKg   decimal.Decimal `json:"volumetricKg"`
	ChargeableKg   decimal.Decimal `json:"chargeableKg"`
	UsesVolumetric bool            `json:"usesVolumetric"`
	Rationale      string          `json:"rationale"`
}

// ResolveWeight computes the chargeable weight with the default volumetric factor.
func ResolveWeight(weightKg, volumeM3 float64) WeightDecision {
	return ResolveWeightWithFactor(weightKg, volumeM3, decimal.NewFromInt(VolumetricFactor))
}

// ResolveWeightWithFactor picks max(real, volume × factor). Negative, NaN and
// infinite inputs count as absent.
func ResolveWeightWithFactor(weightKg, volumeM3 float64, factor decimal.Decimal) WeightDecision {
	realKg := sanitize(weightKg)
	volume := sanitize(volumeM3)
	volumetric := volume.Mul(factor)

	d := WeightDecision{
		RealKg:         realKg,
		VolumetricKg:   volumetric,
		ChargeableKg:   decimal.Max(realKg, volumetric),
		UsesVolumetric: volumetric.GreaterThan(realKg),
	}

	switch {
	case realKg.IsPositive() && volume.IsPositive():
		if d.UsesVolumetric {
			d.Rationale = fmt.Sprintf("Se cobra peso volumétrico: %s m³ × %s = %s kg supera el peso real de %s kg",
				volume, factor, volumetric, realKg)
		} else {
			d.Rationale = fmt.Sprintf("Se cobra peso real: %s kg no es menor al volumétrico (%s m³ × %s = %s kg)",
				realKg, volume, factor, volumetric)
		}
	case realKg.IsPositive():
		d.Rationale = fmt.Sprintf("Sin volumen declarado: se cobra el peso real de %s kg", realKg)
	case volume.IsPositive():
		d.Rationale = fmt.Sprintf("Sin peso declarado: se cobra el volumétrico %s m³ × %s = %s kg", volume, factor, volumetric)
	default:
		d.Rationale = "Sin peso ni volumen: no se puede buscar tarifa"
	}

	return d
}

// WeightBucket rounds a weight up to the next multiple of WeightBucketStep.
func WeightBucket(kg decimal.Decimal) decimal.Decimal {
	if !kg.IsPositive() {
		return decimal.Zero
	}
	step := decimal.NewFromInt(WeightBucketStep)
	return kg.Div(step).Ceil().Mul(step)
}

func sanitize(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
