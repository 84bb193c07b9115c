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

// --- DTOs ---

type CommercialTermsPayload struct {
	TariffType     string  `json:"tariff_type"`
	TariffModifier string  `json:"tariff_modifier"` // Signed percent, decimal string
	InsuranceRate  string  `json:"insurance_rate"`  // Fraction, decimal string
	CreditDays     int     `json:"credit_days"`
	Origin         *string `json:"origin"`
	Destination    *string `json:"destination"`
}

type CreateEntityRequest struct {
	LegalName        string                  `json:"legal_name" binding:"required"`
	TaxID            string                  `json:"tax_id"`
	ClientType       string                  `json:"client_type"`
	PaymentTerms     string                  `json:"payment_terms"`
	AssignedTariffID *int64                  `json:"assigned_tariff_id"`
	CommercialTerms  *CommercialTermsPayload `json:"commercial_terms"`
}

type CommercialTermsResponse struct {
	ID             int64   `json:"id"`
	TariffType     string  `json:"tariff_type"`
	TariffModifier string  `json:"tariff_modifier"`
	InsuranceRate  string  `json:"insurance_rate"`
	CreditDays     int     `json:"credit_days"`
	Origin         *string `json:"origin"`
	Destination    *string `json:"destination"`
}

type EntityResponse struct {
	ID               int64                    `json:"id"`
	LegalName        string                   `json:"legal_name"`
	TaxID            *string                  `json:"tax_id"`
	ClientType       string                   `json:"client_type"`
	PaymentTerms     string                   `json:"payment_terms"`
	AssignedTariffID *int64                   `json:"assigned_tariff_id"`
	CommercialTerms  *CommercialTermsResponse `json:"commercial_terms,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
}

// --- Interface ---

type EntityService interface {
	CreateEntity(ctx context.Context, req CreateEntityRequest) (EntityResponse, error)
	GetEntity(ctx context.Context, id int64) (EntityResponse, error)
	SearchEntities(ctx context.Context, cuit, name string) ([]EntityResponse, error)
}

type entityService struct {
	entityRepo repository.EntityRepository
	txManager  repository.TransactionManager
}

func NewEntityService(entityRepo repository.EntityRepository, txManager repository.TransactionManager) EntityService {
	return &entityService{entityRepo: entityRepo, txManager: txManager}
}

const searchLimit = 20

// --- Validation helpers ---

var validClientTypes = map[string]bool{
	model.ClientTypeRegular:    true,
	model.ClientTypeOccasional: true,
}

var validPaymentTerms = map[string]bool{
	model.PaymentCuentaCorriente: true,
	model.PaymentContado:         true,
}

// CleanCUIT strips the dashes and spaces people type into tax ids.
func CleanCUIT(cuit string) string {
	return strings.NewReplacer("-", "", " ", "", ".", "").Replace(strings.TrimSpace(cuit))
}

func toTermsModel(p CommercialTermsPayload) (*model.CommercialTerms, error) {
	terms := &model.CommercialTerms{
		TariffType:    strings.TrimSpace(p.TariffType),
		InsuranceRate: model.DefaultInsuranceRate,
		CreditDays:    p.CreditDays,
		Origin:        p.Origin,
		Destination:   p.Destination,
		IsActive:      true,
	}
	if terms.TariffType == "" {
		terms.TariffType = "base"
	}
	if p.TariffModifier != "" {
		m, err := decimal.NewFromString(p.TariffModifier)
		if err != nil {
			return nil, invalid("tariff_modifier must be a decimal number")
		}
		if m.LessThanOrEqual(decimal.NewFromInt(-100)) {
			return nil, invalid("tariff_modifier must be greater than -100")
		}
		terms.TariffModifier = m
	}
	if p.InsuranceRate != "" {
		r, err := decimal.NewFromString(p.InsuranceRate)
		if err != nil || r.IsNegative() || r.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, invalid("insurance_rate must be a fraction between 0 and 1")
		}
		terms.InsuranceRate = r
	}
	if p.CreditDays < 0 {
		return nil, invalid("credit_days cannot be negative")
	}
	return terms, nil
}

// --- CRUD ---

func (s *entityService) CreateEntity(ctx context.Context, req CreateEntityRequest) (EntityResponse, error) {
	name := strings.TrimSpace(req.LegalName)
	if name == "" {
		return EntityResponse{}, invalid("legal_name is required")
	}
	if req.ClientType == "" {
		req.ClientType = model.ClientTypeOccasional
	}
	if !validClientTypes[req.ClientType] {
		return EntityResponse{}, invalid("client_type must be one of: regular, occasional")
	}
	if req.PaymentTerms == "" {
		req.PaymentTerms = model.PaymentContado
	}
	if !validPaymentTerms[req.PaymentTerms] {
		return EntityResponse{}, invalid("payment_terms must be one of: cuenta_corriente, contado")
	}

	entity := &model.Entity{
		LegalName:        name,
		ClientType:       req.ClientType,
		PaymentTerms:     req.PaymentTerms,
		AssignedTariffID: req.AssignedTariffID,
	}
	if cuit := CleanCUIT(req.TaxID); cuit != "" {
		entity.TaxID = &cuit
	}

	var terms *model.CommercialTerms
	if req.CommercialTerms != nil {
		var err error
		if terms, err = toTermsModel(*req.CommercialTerms); err != nil {
			return EntityResponse{}, err
		}
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entityRepo.Create(txCtx, entity); err != nil {
			return fmt.Errorf("failed to create entity: %w", err)
		}
		if terms != nil {
			terms.EntityID = entity.ID
			if err := s.entityRepo.CreateTerms(txCtx, terms); err != nil {
				return fmt.Errorf("failed to create commercial terms: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return EntityResponse{}, err
	}

	return toEntityResponse(*entity, terms), nil
}

func (s *entityService) GetEntity(ctx context.Context, id int64) (EntityResponse, error) {
	entity, err := s.entityRepo.FindByID(ctx, id)
	if err != nil {
		return EntityResponse{}, fmt.Errorf("failed to fetch entity: %w", err)
	}
	if entity == nil {
		return EntityResponse{}, ErrEntityNotFound
	}

	terms, err := s.entityRepo.FindActiveTerms(ctx, id)
	if err != nil {
		return EntityResponse{}, fmt.Errorf("failed to fetch commercial terms: %w", err)
	}

	return toEntityResponse(*entity, terms), nil
}

// SearchEntities looks up by CUIT (as typed, then cleaned) or by name substring.
func (s *entityService) SearchEntities(ctx context.Context, cuit, name string) ([]EntityResponse, error) {
	cuit = strings.TrimSpace(cuit)
	name = strings.TrimSpace(name)
	if cuit == "" && name == "" {
		return nil, invalid("cuit or name is required")
	}

	var entities []model.Entity
	if cuit != "" {
		candidates := []string{cuit}
		if clean := CleanCUIT(cuit); clean != cuit && clean != "" {
			candidates = append(candidates, clean)
		}
		for _, c := range candidates {
			found, err := s.entityRepo.Search(ctx, c, "", searchLimit)
			if err != nil {
				return nil, fmt.Errorf("failed to search entities: %w", err)
			}
			if len(found) > 0 {
				entities = found
				break
			}
		}
	}
	if len(entities) == 0 && name != "" {
		found, err := s.entityRepo.Search(ctx, "", name, searchLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to search entities: %w", err)
		}
		entities = found
	}

	res := make([]EntityResponse, 0, len(entities))
	for _, e := range entities {
		res = append(res, toEntityResponse(e, nil))
	}
	return res, nil
}

// --- Response mappers ---

func toEntityResponse(e model.Entity, terms *model.CommercialTerms) EntityResponse {
	res := EntityResponse{
		ID:               e.ID,
		LegalName:        e.LegalName,
		TaxID:            e.TaxID,
		ClientType:       e.ClientType,
		PaymentTerms:     e.PaymentTerms,
		AssignedTariffID: e.AssignedTariffID,
		CreatedAt:        e.CreatedAt,
	}
	if terms != nil {
		res.CommercialTerms = &CommercialTermsResponse{
			ID:             terms.ID,
			TariffType:     terms.TariffType,
			TariffModifier: terms.TariffModifier.String(),
			InsuranceRate:  terms.InsuranceRate.String(),
			CreditDays:     terms.CreditDays,
			Origin:         terms.Origin,
			Destination:    terms.Destination,
		}
	}
	return res
}
