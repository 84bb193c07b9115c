package service

import (
	"context"
	"fmt"
	"time"

	"freightdesk/internal/metrics"
	"freightdesk/internal/pricing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

// CargoPayload is the nested cargo shape sent by the intake form.
type CargoPayload struct {
	PackageQuantity *Number `json:"packageQuantity"`
	WeightKg        *Number `json:"weightKg"`
	VolumeM3        *Number `json:"volumeM3"`
	DeclaredValue   *Number `json:"declaredValue"`
}

type DetectPricingRequest struct {
	ClientID        Number        `json:"clientId"`
	RecipientCUIT   string        `json:"recipientCuit"`
	RecipientName   string        `json:"recipientName"`
	Origin          string        `json:"origin"`
	Destination     string        `json:"destination"`
	PackageQuantity Number        `json:"packageQuantity"`
	WeightKg        Number        `json:"weightKg"`
	VolumeM3        Number        `json:"volumeM3"`
	DeclaredValue   Number        `json:"declaredValue"`
	Cargo           *CargoPayload `json:"cargo"`
}

// ToEngine merges flat and nested cargo fields, cargo.* winning.
func (r DetectPricingRequest) ToEngine() pricing.Request {
	req := pricing.Request{
		ClientID:        int64(r.ClientID),
		RecipientCUIT:   r.RecipientCUIT,
		RecipientName:   r.RecipientName,
		Origin:          r.Origin,
		Destination:     r.Destination,
		PackageQuantity: int(r.PackageQuantity),
		WeightKg:        r.WeightKg.Float(),
		VolumeM3:        r.VolumeM3.Float(),
		DeclaredValue:   r.DeclaredValue.Float(),
	}
	if c := r.Cargo; c != nil {
		if c.PackageQuantity != nil {
			req.PackageQuantity = int(*c.PackageQuantity)
		}
		if c.WeightKg != nil {
			req.WeightKg = c.WeightKg.Float()
		}
		if c.VolumeM3 != nil {
			req.VolumeM3 = c.VolumeM3.Float()
		}
		if c.DeclaredValue != nil {
			req.DeclaredValue = c.DeclaredValue.Float()
		}
	}
	return req
}

// ReviewAlert is pushed to dispatch screens when a price needs human confirmation.
type ReviewAlert struct {
	Path       pricing.Path     `json:"path"`
	PathName   string           `json:"pathName"`
	ClientName string           `json:"clientName"`
	Price      *decimal.Decimal `json:"price"`
	Reason     string           `json:"reason"`
}

const ReviewRequiredEvent = "pricing.review_required"

// ReviewNotifier receives review alerts; the websocket hub implements it.
type ReviewNotifier interface {
	Publish(eventType string, data interface{})
}

// --- Interface ---

type PricingService interface {
	DetectPricing(ctx context.Context, req DetectPricingRequest) (*pricing.Result, error)
}

type pricingService struct {
	engine       *pricing.Engine
	notifier     ReviewNotifier
	log          zerolog.Logger
	includeDebug bool
}

// NewPricingService wires the engine. notifier may be nil.
func NewPricingService(engine *pricing.Engine, notifier ReviewNotifier, log zerolog.Logger, includeDebug bool) PricingService {
	return &pricingService{
		engine:       engine,
		notifier:     notifier,
		log:          log.With().Str("component", "pricing").Logger(),
		includeDebug: includeDebug,
	}
}

// --- Implementation ---

func (s *pricingService) DetectPricing(ctx context.Context, req DetectPricingRequest) (*pricing.Result, error) {
	start := time.Now()

	res, err := s.engine.Price(ctx, req.ToEngine())
	if err != nil {
		metrics.PricingErrors.Inc()
		s.log.Error().Err(err).Msg("pricing failed")
		return nil, fmt.Errorf("failed to price shipment: %w", err)
	}

	path := string(res.Path)
	metrics.PricingDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	metrics.PricingDecisions.WithLabelValues(path, fmt.Sprint(res.NeedsReview())).Inc()

	event := s.log.Debug().
		Str("path", path).
		Bool("needs_review", res.NeedsReview()).
		Bool("new_client", res.Client.IsNew)
	if res.Pricing.Price != nil {
		event = event.Str("price", res.Pricing.Price.String())
	}
	if d := res.Debug; d != nil && d.Weight != nil {
		event = event.Str("chargeable_kg", d.Weight.ChargeableKg.String())
	}
	if d := res.Debug; d != nil && d.Tariff != nil {
		event = event.Str("bucket_kg", d.Tariff.BucketKg.String())
	}
	event.Msg("shipment priced")

	if res.NeedsReview() && s.notifier != nil {
		s.notifier.Publish(ReviewRequiredEvent, ReviewAlert{
			Path:       res.Path,
			PathName:   res.PathName,
			ClientName: res.Client.Name,
			Price:      res.Pricing.Price,
			Reason:     res.Validation.Reason,
		})
	}

	if !s.includeDebug {
		res.Debug = nil
	}
	return res, nil
}
