package pricing

import (
	"context"
	"strings"
	"time"

	"freightdesk/internal/model"

	"github.com/shopspring/decimal"
)

// FallbackRatePerKg prices general-tariff shipments when no bracket exists.
const FallbackRatePerKg = 500

const (
	DefaultOrigin      = "Buenos Aires"
	DefaultDestination = "San Salvador de Jujuy"
)

// ClientDirectory looks up counterparties. Every method returns (nil, nil) on a miss.
type ClientDirectory interface {
	FindByID(ctx context.Context, id int64) (*model.Entity, error)
	FindByTaxID(ctx context.Context, taxID string) (*model.Entity, error)
	// FindByName matches a case-insensitive substring of the legal name.
	FindByName(ctx context.Context, name string) (*model.Entity, error)
	FindActiveTerms(ctx context.Context, entityID int64) (*model.CommercialTerms, error)
}

// QuotationStore finds pending quotations with valid_until >= now, newest
// first. Every method returns (nil, nil) on a miss.
type QuotationStore interface {
	FindPendingByCUIT(ctx context.Context, cuit string, now time.Time) (*model.Quotation, error)
	FindPendingByNameAndDestination(ctx context.Context, name, destination string, now time.Time) (*model.Quotation, error)
}

// Config holds the business constants of the engine.
type Config struct {
	VolumetricFactor     decimal.Decimal
	FallbackRatePerKg    decimal.Decimal
	DefaultInsuranceRate decimal.Decimal
	DefaultOrigin        string
	DefaultDestination   string
}

func DefaultConfig() Config {
	return Config{
		VolumetricFactor:     decimal.NewFromInt(VolumetricFactor),
		FallbackRatePerKg:    decimal.NewFromInt(FallbackRatePerKg),
		DefaultInsuranceRate: model.DefaultInsuranceRate,
		DefaultOrigin:        DefaultOrigin,
		DefaultDestination:   DefaultDestination,
	}
}

// Request is the sanitized input of a pricing decision.
type Request struct {
	ClientID        int64   `json:"clientId,omitempty"`
	RecipientCUIT   string  `json:"recipientCuit,omitempty"`
	RecipientName   string  `json:"recipientName,omitempty"`
	Origin          string  `json:"origin"`
	Destination     string  `json:"destination"`
	PackageQuantity int     `json:"packageQuantity,omitempty"`
	WeightKg        float64 `json:"weightKg"`
	VolumeM3        float64 `json:"volumeM3"`
	DeclaredValue   float64 `json:"declaredValue"`
}

// Engine decides the commercial pathway of a shipment and prices it.
// It only reads from its stores.
type Engine struct {
	clients    ClientDirectory
	quotations QuotationStore
	tariffs    *TariffFinder
	cfg        Config
	now        func() time.Time
}

func NewEngine(clients ClientDirectory, tariffs TariffStore, quotations QuotationStore, cfg Config) *Engine {
	return &Engine{
		clients:    clients,
		quotations: quotations,
		tariffs:    NewTariffFinder(tariffs),
		cfg:        cfg,
		now:        time.Now,
	}
}

// WithClock replaces the clock used to decide quotation expiry.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Price resolves the client, classifies the shipment into exactly one pathway
// and prices it. Misses never fail; only store errors are returned.
func (e *Engine) Price(ctx context.Context, req Request) (*Result, error) {
	req = e.normalizeRequest(req)

	client, err := e.resolveClient(ctx, req)
	if err != nil {
		return nil, err
	}

	p, err := e.classify(ctx, req, client)
	if err != nil {
		return nil, err
	}

	return p.price(ctx, e, req)
}

func (e *Engine) normalizeRequest(req Request) Request {
	req.RecipientCUIT = strings.TrimSpace(req.RecipientCUIT)
	req.RecipientName = strings.TrimSpace(req.RecipientName)
	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	if req.Origin == "" {
		req.Origin = e.cfg.DefaultOrigin
	}
	if req.Destination == "" {
		req.Destination = e.cfg.DefaultDestination
	}
	if req.PackageQuantity < 0 {
		req.PackageQuantity = 0
	}
	return req
}

// resolveClient tries id, then exact tax id, then name; first hit wins.
func (e *Engine) resolveClient(ctx context.Context, req Request) (*model.Entity, error) {
	if req.ClientID > 0 {
		c, err := e.clients.FindByID(ctx, req.ClientID)
		if err != nil || c != nil {
			return c, err
		}
	}
	if req.RecipientCUIT != "" {
		for _, cuit := range cuitCandidates(req.RecipientCUIT) {
			c, err := e.clients.FindByTaxID(ctx, cuit)
			if err != nil || c != nil {
				return c, err
			}
		}
	}
	if req.RecipientName != "" {
		return e.clients.FindByName(ctx, req.RecipientName)
	}
	return nil, nil
}

// classify walks the fixed A → B → C cascade.
func (e *Engine) classify(ctx context.Context, req Request, client *model.Entity) (pathway, error) {
	if client != nil {
		terms, err := e.clients.FindActiveTerms(ctx, client.ID)
		if err != nil {
			return nil, err
		}
		if client.ClientType == model.ClientTypeRegular ||
			client.PaymentTerms == model.PaymentCuentaCorriente ||
			terms != nil {
			return contractPath{client: client, terms: terms}, nil
		}
	}

	q, err := e.findQuotation(ctx, req, client)
	if err != nil {
		return nil, err
	}
	if q != nil {
		return quotationPath{client: client, quotation: q}, nil
	}

	return generalPath{client: client}, nil
}

func (e *Engine) findQuotation(ctx context.Context, req Request, client *model.Entity) (*model.Quotation, error) {
	now := e.now()

	cuit := req.RecipientCUIT
	if cuit == "" && client != nil && client.TaxID != nil {
		cuit = *client.TaxID
	}
	if cuit != "" {
		for _, c := range cuitCandidates(cuit) {
			q, err := e.quotations.FindPendingByCUIT(ctx, c, now)
			if err != nil || q != nil {
				return q, err
			}
		}
	}

	name := req.RecipientName
	if name == "" && client != nil {
		name = client.LegalName
	}
	if name == "" {
		return nil, nil
	}
	for _, dest := range NormalizeCity(req.Destination) {
		q, err := e.quotations.FindPendingByNameAndDestination(ctx, name, dest, now)
		if err != nil || q != nil {
			return q, err
		}
	}
	return nil, nil
}

// cuitCandidates returns the CUIT as typed and, when different, stripped of
// dashes and spaces.
func cuitCandidates(cuit string) []string {
	clean := strings.NewReplacer("-", "", " ", "").Replace(cuit)
	if clean == cuit || clean == "" {
		return []string{cuit}
	}
	return []string{cuit, clean}
}
