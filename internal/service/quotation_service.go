package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"freightdesk/internal/model"
	"freightdesk/internal/repository"

	"github.com/shopspring/decimal"
)

// DefaultQuotationValidity is how long a new quotation can be matched.
const DefaultQuotationValidity = 7 * 24 * time.Hour

// --- DTOs ---

type CreateQuotationRequest struct {
	CustomerName           string     `json:"customer_name" binding:"required"`
	CustomerCUIT           string     `json:"customer_cuit"`
	Destination            string     `json:"destination"`
	WeightKg               string     `json:"weight_kg"` // Decimal string
	PackageQuantity        int        `json:"package_quantity"`
	WeightTolerancePercent string     `json:"weight_tolerance_percent"`
	TotalPrice             string     `json:"total_price" binding:"required"`
	ValidUntil             *time.Time `json:"valid_until"`
}

type QuotationResponse struct {
	ID                     int64     `json:"id"`
	CustomerName           string    `json:"customer_name"`
	CustomerCUIT           *string   `json:"customer_cuit"`
	Destination            string    `json:"destination"`
	WeightKg               string    `json:"weight_kg"`
	PackageQuantity        int       `json:"package_quantity"`
	WeightTolerancePercent string    `json:"weight_tolerance_percent"`
	TotalPrice             string    `json:"total_price"`
	Status                 string    `json:"status"`
	ValidUntil             time.Time `json:"valid_until"`
	CreatedAt              time.Time `json:"created_at"`
}

// --- Interface ---

type QuotationService interface {
	CreateQuotation(ctx context.Context, req CreateQuotationRequest) (QuotationResponse, error)
	GetQuotations(ctx context.Context, status string, page, limit int) ([]QuotationResponse, int64, error)
	ConfirmQuotation(ctx context.Context, id int64) (QuotationResponse, error)
}

type quotationService struct {
	quotationRepo repository.QuotationRepository
	txManager     repository.TransactionManager
	now           func() time.Time
}

func NewQuotationService(quotationRepo repository.QuotationRepository, txManager repository.TransactionManager) QuotationService {
	return &quotationService{quotationRepo: quotationRepo, txManager: txManager, now: time.Now}
}

var validQuotationStatuses = map[string]bool{
	model.QuotationPending:   true,
	model.QuotationConfirmed: true,
	model.QuotationExpired:   true,
}

// --- CRUD ---

func (s *quotationService) CreateQuotation(ctx context.Context, req CreateQuotationRequest) (QuotationResponse, error) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return QuotationResponse{}, invalid("customer_name is required")
	}
	if req.PackageQuantity < 0 {
		return QuotationResponse{}, invalid("package_quantity cannot be negative")
	}

	price, err := parseAmount("total_price", req.TotalPrice, true)
	if err != nil {
		return QuotationResponse{}, err
	}
	if !price.IsPositive() {
		return QuotationResponse{}, invalid("total_price must be positive")
	}
	weight, err := parseAmount("weight_kg", req.WeightKg, false)
	if err != nil {
		return QuotationResponse{}, err
	}
	if weight.IsNegative() {
		return QuotationResponse{}, invalid("weight_kg cannot be negative")
	}
	tolerance, err := parseAmount("weight_tolerance_percent", req.WeightTolerancePercent, false)
	if err != nil {
		return QuotationResponse{}, err
	}
	if tolerance.IsNegative() {
		return QuotationResponse{}, invalid("weight_tolerance_percent cannot be negative")
	}
	if tolerance.IsZero() {
		tolerance = decimal.NewFromInt(model.DefaultWeightTolerancePercent)
	}

	now := s.now()
	validUntil := now.Add(DefaultQuotationValidity)
	if req.ValidUntil != nil {
		if !req.ValidUntil.After(now) {
			return QuotationResponse{}, invalid("valid_until must be in the future")
		}
		validUntil = *req.ValidUntil
	}

	quotation := &model.Quotation{
		CustomerName:           name,
		Destination:            strings.TrimSpace(req.Destination),
		WeightKg:               weight,
		PackageQuantity:        req.PackageQuantity,
		WeightTolerancePercent: tolerance,
		TotalPrice:             price,
		Status:                 model.QuotationPending,
		ValidUntil:             validUntil,
	}
	if cuit := CleanCUIT(req.CustomerCUIT); cuit != "" {
		quotation.CustomerCUIT = &cuit
	}

	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return QuotationResponse{}, fmt.Errorf("failed to create quotation: %w", err)
	}
	return toQuotationResponse(*quotation), nil
}

func (s *quotationService) GetQuotations(ctx context.Context, status string, page, limit int) ([]QuotationResponse, int64, error) {
	if status != "" && !validQuotationStatuses[status] {
		return nil, 0, invalid("status must be one of: pending, confirmed, expired")
	}

	quotations, total, err := s.quotationRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch quotations: %w", err)
	}

	res := make([]QuotationResponse, 0, len(quotations))
	for _, q := range quotations {
		res = append(res, toQuotationResponse(q))
	}
	return res, total, nil
}

// ConfirmQuotation promotes a pending, unexpired quotation once its shipment is accepted.
func (s *quotationService) ConfirmQuotation(ctx context.Context, id int64) (QuotationResponse, error) {
	var confirmed model.Quotation

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		q, err := s.quotationRepo.FindByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to fetch quotation: %w", err)
		}
		if q == nil {
			return ErrQuotationNotFound
		}
		if q.Status != model.QuotationPending {
			return ErrQuotationNotPending
		}
		if q.ValidUntil.Before(s.now()) {
			return ErrQuotationExpired
		}

		q.Status = model.QuotationConfirmed
		if err := s.quotationRepo.Update(txCtx, q); err != nil {
			return fmt.Errorf("failed to confirm quotation: %w", err)
		}
		confirmed = *q
		return nil
	})
	if err != nil {
		return QuotationResponse{}, err
	}

	return toQuotationResponse(confirmed), nil
}

// --- Response mappers ---

func toQuotationResponse(q model.Quotation) QuotationResponse {
	return QuotationResponse{
		ID:                     q.ID,
		CustomerName:           q.CustomerName,
		CustomerCUIT:           q.CustomerCUIT,
		Destination:            q.Destination,
		WeightKg:               q.WeightKg.String(),
		PackageQuantity:        q.PackageQuantity,
		WeightTolerancePercent: q.WeightTolerancePercent.String(),
		TotalPrice:             q.TotalPrice.String(),
		Status:                 q.Status,
		ValidUntil:             q.ValidUntil,
		CreatedAt:              q.CreatedAt,
	}
}
