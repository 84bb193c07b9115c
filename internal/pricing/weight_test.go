package pricing

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestResolveWeight(t *testing.T) {
	tests := []struct {
		name           string
		weight, volume float64
		chargeable     string
		usesVolumetric bool
	}{
		{"real wins", 50, 0.1, "50", false},
		{"volumetric wins", 20, 0.1, "30", true},
		{"tie keeps real", 30, 0.1, "30", false},
		{"only weight", 12.5, 0, "12.5", false},
		{"only volume", 0, 0.5, "150", true},
		{"nothing", 0, 0, "0", false},
		{"negative counts as absent", -10, -1, "0", false},
		{"nan counts as absent", math.NaN(), 1, "300", true},
		{"inf counts as absent", math.Inf(1), 0, "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ResolveWeight(tt.weight, tt.volume)
			assert.True(t, d.ChargeableKg.Equal(decimal.RequireFromString(tt.chargeable)),
				"chargeable = %s, want %s", d.ChargeableKg, tt.chargeable)
			assert.Equal(t, tt.usesVolumetric, d.UsesVolumetric)
			assert.NotEmpty(t, d.Rationale)
		})
	}
}

func TestResolveWeightWithFactor(t *testing.T) {
	d := ResolveWeightWithFactor(10, 0.1, decimal.NewFromInt(250))
	assert.True(t, d.VolumetricKg.Equal(decimal.NewFromInt(25)))
	assert.True(t, d.UsesVolumetric)
	assert.Contains(t, d.Rationale, "volumétrico")
}

func TestWeightBucket(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0", "0"},
		{"-5", "0"},
		{"0.1", "10"},
		{"10", "10"},
		{"10.01", "20"},
		{"30", "30"},
		{"50", "50"},
		{"115", "120"},
	}
	for _, tt := range tests {
		got := WeightBucket(decimal.RequireFromString(tt.in))
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "WeightBucket(%s) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestResolveWeightProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("chargeable weight is the max of real and volumetric", prop.ForAll(
		func(weight, volume float64) bool {
			d := ResolveWeight(weight, volume)
			return d.ChargeableKg.GreaterThanOrEqual(d.RealKg) &&
				d.ChargeableKg.GreaterThanOrEqual(d.VolumetricKg) &&
				(d.ChargeableKg.Equal(d.RealKg) || d.ChargeableKg.Equal(d.VolumetricKg))
		},
		gen.Float64Range(-100, 10000),
		gen.Float64Range(-1, 50),
	))

	properties.Property("bucket covers the weight within one step", prop.ForAll(
		func(kg float64) bool {
			w := decimal.NewFromFloat(kg)
			b := WeightBucket(w)
			step := decimal.NewFromInt(WeightBucketStep)
			return b.GreaterThanOrEqual(w) &&
				b.Sub(w).LessThan(step) &&
				b.Mod(step).IsZero()
		},
		gen.Float64Range(0.001, 100000),
	))

	properties.TestingRun(t)
}
