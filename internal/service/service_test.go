package service

import (
	"context"
	"strings"
	"time"

	"freightdesk/internal/model"

	"github.com/shopspring/decimal"
)

// inlineTx runs the callback without a database.
type inlineTx struct{ calls int }

func (t *inlineTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeEntityRepo struct {
	entities []model.Entity
	terms    []model.CommercialTerms
	err      error
	searches []string
}

func (r *fakeEntityRepo) Create(_ context.Context, e *model.Entity) error {
	if r.err != nil {
		return r.err
	}
	e.ID = int64(len(r.entities) + 1)
	r.entities = append(r.entities, *e)
	return nil
}

func (r *fakeEntityRepo) CreateTerms(_ context.Context, t *model.CommercialTerms) error {
	if r.err != nil {
		return r.err
	}
	t.ID = int64(len(r.terms) + 1)
	r.terms = append(r.terms, *t)
	return nil
}

func (r *fakeEntityRepo) FindByID(_ context.Context, id int64) (*model.Entity, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.entities {
		if r.entities[i].ID == id {
			return &r.entities[i], nil
		}
	}
	return nil, nil
}

func (r *fakeEntityRepo) FindByTaxID(_ context.Context, taxID string) (*model.Entity, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.entities {
		if r.entities[i].TaxID != nil && *r.entities[i].TaxID == taxID {
			return &r.entities[i], nil
		}
	}
	return nil, nil
}

func (r *fakeEntityRepo) FindByName(_ context.Context, name string) (*model.Entity, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.entities {
		if strings.Contains(strings.ToLower(r.entities[i].LegalName), strings.ToLower(name)) {
			return &r.entities[i], nil
		}
	}
	return nil, nil
}

func (r *fakeEntityRepo) FindActiveTerms(_ context.Context, entityID int64) (*model.CommercialTerms, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.terms {
		if r.terms[i].EntityID == entityID && r.terms[i].IsActive {
			return &r.terms[i], nil
		}
	}
	return nil, nil
}

func (r *fakeEntityRepo) Search(_ context.Context, taxID, name string, limit int) ([]model.Entity, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.searches = append(r.searches, taxID+"|"+name)
	var out []model.Entity
	for _, e := range r.entities {
		switch {
		case taxID != "" && e.TaxID != nil && *e.TaxID == taxID:
			out = append(out, e)
		case name != "" && strings.Contains(strings.ToLower(e.LegalName), strings.ToLower(name)):
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeTariffRepo struct {
	tariffs []model.Tariff
	err     error
}

func (r *fakeTariffRepo) Create(_ context.Context, t *model.Tariff) error {
	if r.err != nil {
		return r.err
	}
	t.ID = int64(len(r.tariffs) + 1)
	r.tariffs = append(r.tariffs, *t)
	return nil
}

func (r *fakeTariffRepo) CreateBatch(_ context.Context, tariffs []model.Tariff) error {
	if r.err != nil {
		return r.err
	}
	r.tariffs = append(r.tariffs, tariffs...)
	return nil
}

func (r *fakeTariffRepo) List(_ context.Context, origin, destination string, page, limit int) ([]model.Tariff, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	var out []model.Tariff
	for _, t := range r.tariffs {
		if origin != "" && !strings.Contains(strings.ToLower(t.Origin), strings.ToLower(origin)) {
			continue
		}
		if destination != "" && !strings.Contains(strings.ToLower(t.Destination), strings.ToLower(destination)) {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTariffRepo) FindBracket(_ context.Context, origin, destination string, bucketKg decimal.Decimal) (*model.Tariff, error) {
	if r.err != nil {
		return nil, r.err
	}
	var best *model.Tariff
	for i := range r.tariffs {
		t := &r.tariffs[i]
		if !strings.EqualFold(t.Origin, origin) || !strings.EqualFold(t.Destination, destination) {
			continue
		}
		if t.TariffType == model.TariffTypeVolume || t.WeightToKg.LessThan(bucketKg) {
			continue
		}
		if best == nil || t.WeightToKg.LessThan(best.WeightToKg) {
			best = t
		}
	}
	return best, nil
}

func (r *fakeTariffRepo) FindAnyBracket(_ context.Context, bucketKg decimal.Decimal) (*model.Tariff, error) {
	return nil, r.err
}

type fakeQuotationRepo struct {
	quotations []model.Quotation
	err        error
	updated    int
}

func (r *fakeQuotationRepo) Create(_ context.Context, q *model.Quotation) error {
	if r.err != nil {
		return r.err
	}
	q.ID = int64(len(r.quotations) + 1)
	r.quotations = append(r.quotations, *q)
	return nil
}

func (r *fakeQuotationRepo) Update(_ context.Context, q *model.Quotation) error {
	if r.err != nil {
		return r.err
	}
	for i := range r.quotations {
		if r.quotations[i].ID == q.ID {
			r.quotations[i] = *q
			r.updated++
		}
	}
	return nil
}

func (r *fakeQuotationRepo) FindByID(_ context.Context, id int64) (*model.Quotation, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.quotations {
		if r.quotations[i].ID == id {
			q := r.quotations[i]
			return &q, nil
		}
	}
	return nil, nil
}

func (r *fakeQuotationRepo) List(_ context.Context, status string, page, limit int) ([]model.Quotation, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	var out []model.Quotation
	for _, q := range r.quotations {
		if status == "" || q.Status == status {
			out = append(out, q)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeQuotationRepo) FindPendingByCUIT(_ context.Context, cuit string, now time.Time) (*model.Quotation, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.quotations {
		q := r.quotations[i]
		if q.Status == model.QuotationPending && !q.ValidUntil.Before(now) && q.CustomerCUIT != nil && *q.CustomerCUIT == cuit {
			return &q, nil
		}
	}
	return nil, nil
}

func (r *fakeQuotationRepo) FindPendingByNameAndDestination(_ context.Context, name, destination string, now time.Time) (*model.Quotation, error) {
	return nil, r.err
}

func strPtr(s string) *string { return &s }
