package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"freightdesk/internal/metrics"
	"freightdesk/internal/model"
	"freightdesk/internal/repository"
	"freightdesk/internal/tariffsheet"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateTariffRequest struct {
	Origin       string `json:"origin" binding:"required"`
	Destination  string `json:"destination" binding:"required"`
	TariffType   string `json:"tariff_type"`
	WeightFromKg string `json:"weight_from_kg"` // Decimal string
	WeightToKg   string `json:"weight_to_kg" binding:"required"`
	Price        string `json:"price" binding:"required"`
}

type TariffResponse struct {
	ID           int64     `json:"id"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	TariffType   string    `json:"tariff_type"`
	WeightFromKg string    `json:"weight_from_kg"`
	WeightToKg   string    `json:"weight_to_kg"`
	Price        string    `json:"price"`
	CreatedAt    time.Time `json:"created_at"`
}

type ImportTariffsResponse struct {
	Sheet     string                 `json:"sheet"`
	TotalRows int                    `json:"total_rows"`
	Imported  int                    `json:"imported"`
	Errors    []tariffsheet.RowError `json:"errors"`
}

// CacheInvalidator drops cached tariff lookups after writes.
type CacheInvalidator interface {
	Invalidate()
}

// --- Interface ---

type TariffService interface {
	CreateTariff(ctx context.Context, req CreateTariffRequest) (TariffResponse, error)
	GetTariffs(ctx context.Context, origin, destination string, page, limit int) ([]TariffResponse, int64, error)
	ImportTariffs(ctx context.Context, r io.Reader, sheet string) (ImportTariffsResponse, error)
}

type tariffService struct {
	tariffRepo repository.TariffRepository
	txManager  repository.TransactionManager
	cache      CacheInvalidator
	log        zerolog.Logger
}

// NewTariffService wires tariff administration. cache may be nil.
func NewTariffService(tariffRepo repository.TariffRepository, txManager repository.TransactionManager, cache CacheInvalidator, log zerolog.Logger) TariffService {
	return &tariffService{
		tariffRepo: tariffRepo,
		txManager:  txManager,
		cache:      cache,
		log:        log.With().Str("component", "tariffs").Logger(),
	}
}

// --- Validation helpers ---

var validTariffTypes = map[string]bool{
	model.TariffTypeStandard: true,
	model.TariffTypeVolume:   true,
	model.TariffTypeOther:    true,
}

func parseAmount(field, value string, required bool) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		if required {
			return decimal.Zero, invalid(field + " is required")
		}
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, invalid(field + " must be a decimal number")
	}
	return d, nil
}

// --- CRUD ---

func (s *tariffService) CreateTariff(ctx context.Context, req CreateTariffRequest) (TariffResponse, error) {
	tariff := model.Tariff{
		Origin:      strings.TrimSpace(req.Origin),
		Destination: strings.TrimSpace(req.Destination),
		TariffType:  req.TariffType,
	}
	if tariff.Origin == "" || tariff.Destination == "" {
		return TariffResponse{}, invalid("origin and destination are required")
	}
	if tariff.TariffType == "" {
		tariff.TariffType = model.TariffTypeStandard
	}
	if !validTariffTypes[tariff.TariffType] {
		return TariffResponse{}, invalid("tariff_type must be one of: standard, volume, other")
	}

	var err error
	if tariff.WeightFromKg, err = parseAmount("weight_from_kg", req.WeightFromKg, false); err != nil {
		return TariffResponse{}, err
	}
	if tariff.WeightToKg, err = parseAmount("weight_to_kg", req.WeightToKg, true); err != nil {
		return TariffResponse{}, err
	}
	if tariff.Price, err = parseAmount("price", req.Price, true); err != nil {
		return TariffResponse{}, err
	}
	if !tariff.WeightToKg.IsPositive() {
		return TariffResponse{}, invalid("weight_to_kg must be positive")
	}
	if tariff.WeightFromKg.IsNegative() || tariff.WeightFromKg.GreaterThan(tariff.WeightToKg) {
		return TariffResponse{}, invalid("weight_from_kg must be between 0 and weight_to_kg")
	}
	if !tariff.Price.IsPositive() {
		return TariffResponse{}, invalid("price must be positive")
	}

	if err := s.tariffRepo.Create(ctx, &tariff); err != nil {
		return TariffResponse{}, fmt.Errorf("failed to create tariff: %w", err)
	}
	s.invalidate()

	return toTariffResponse(tariff), nil
}

func (s *tariffService) GetTariffs(ctx context.Context, origin, destination string, page, limit int) ([]TariffResponse, int64, error) {
	tariffs, total, err := s.tariffRepo.List(ctx, origin, destination, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tariffs: %w", err)
	}

	res := make([]TariffResponse, 0, len(tariffs))
	for _, t := range tariffs {
		res = append(res, toTariffResponse(t))
	}
	return res, total, nil
}

// ImportTariffs stores every valid row of the sheet in one transaction.
// Rejected rows are reported back and do not block the import.
func (s *tariffService) ImportTariffs(ctx context.Context, r io.Reader, sheet string) (ImportTariffsResponse, error) {
	parsed, err := tariffsheet.Parse(r, sheet)
	if err != nil {
		return ImportTariffsResponse{}, invalid(err.Error())
	}

	res := ImportTariffsResponse{
		Sheet:     parsed.Sheet,
		TotalRows: parsed.TotalRows,
		Errors:    parsed.Errors,
	}
	if len(parsed.Tariffs) == 0 {
		return res, nil
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.tariffRepo.CreateBatch(txCtx, parsed.Tariffs)
	})
	if err != nil {
		return ImportTariffsResponse{}, fmt.Errorf("failed to import tariffs: %w", err)
	}

	res.Imported = len(parsed.Tariffs)
	metrics.TariffsImported.Add(float64(res.Imported))
	s.invalidate()
	s.log.Info().
		Str("sheet", res.Sheet).
		Int("imported", res.Imported).
		Int("rejected", len(res.Errors)).
		Msg("tariff sheet imported")

	return res, nil
}

func (s *tariffService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

// --- Response mappers ---

func toTariffResponse(t model.Tariff) TariffResponse {
	return TariffResponse{
		ID:           t.ID,
		Origin:       t.Origin,
		Destination:  t.Destination,
		TariffType:   t.TariffType,
		WeightFromKg: t.WeightFromKg.String(),
		WeightToKg:   t.WeightToKg.String(),
		Price:        t.Price.String(),
		CreatedAt:    t.CreatedAt,
	}
}
