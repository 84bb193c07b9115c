package pricing

import (
	"context"
	"fmt"

	"freightdesk/internal/model"

	"github.com/shopspring/decimal"
)

// TariffStore answers bracket queries over non-volume tariffs.
// Both methods return (nil, nil) when no bracket covers the weight.
type TariffStore interface {
	// FindBracket returns the bracket of the route with the smallest
	// weight_to_kg >= bucketKg.
	FindBracket(ctx context.Context, origin, destination string, bucketKg decimal.Decimal) (*model.Tariff, error)
	// FindAnyBracket is FindBracket ignoring origin and destination.
	FindAnyBracket(ctx context.Context, bucketKg decimal.Decimal) (*model.Tariff, error)
}

// TariffMatch is the outcome of a tariff lookup.
type TariffMatch struct {
	Tariff      *model.Tariff   `json:"tariff,omitempty"`
	BucketKg    decimal.Decimal `json:"bucketKg"`
	Origin      string          `json:"origin,omitempty"`
	Destination string          `json:"destination,omitempty"`
	Generic     bool            `json:"generic"`
	Note        string          `json:"note"`
}

// TariffFinder resolves the cheapest bracket covering a shipment.
type TariffFinder struct {
	store TariffStore
}

func NewTariffFinder(store TariffStore) *TariffFinder {
	return &TariffFinder{store: store}
}

// Find tries every origin alias × destination alias in normalizer order
// (origin outer) and keeps the first hit. Without a route hit it falls back to
// the closest bracket of any route. Store errors are returned as is.
func (f *TariffFinder) Find(ctx context.Context, origin, destination string, chargeableKg decimal.Decimal) (TariffMatch, error) {
	bucket := WeightBucket(chargeableKg)
	match := TariffMatch{BucketKg: bucket}

	for _, o := range NormalizeCity(origin) {
		for _, d := range NormalizeCity(destination) {
			t, err := f.store.FindBracket(ctx, o, d, bucket)
			if err != nil {
				return TariffMatch{}, err
			}
			if t != nil {
				match.Tariff = t
				match.Origin = o
				match.Destination = d
				match.Note = fmt.Sprintf("Tarifa %s → %s, tramo hasta %s kg para %s kg", o, d, t.WeightToKg, bucket)
				return match, nil
			}
		}
	}

	t, err := f.store.FindAnyBracket(ctx, bucket)
	if err != nil {
		return TariffMatch{}, err
	}
	if t != nil {
		match.Tariff = t
		match.Generic = true
		match.Note = fmt.Sprintf("Sin tarifa para %s → %s: se usa el tramo nacional más cercano (%s → %s, hasta %s kg)",
			origin, destination, t.Origin, t.Destination, t.WeightToKg)
		return match, nil
	}

	match.Note = fmt.Sprintf("Ningún tramo cubre %s kg", bucket)
	return match, nil
}
