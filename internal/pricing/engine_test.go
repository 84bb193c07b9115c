package pricing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"freightdesk/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type memClients struct {
	entities []model.Entity
	terms    []model.CommercialTerms
	err      error
}

func (m *memClients) FindByID(_ context.Context, id int64) (*model.Entity, error) {
	return m.find(func(e model.Entity) bool { return e.ID == id })
}

func (m *memClients) FindByTaxID(_ context.Context, taxID string) (*model.Entity, error) {
	return m.find(func(e model.Entity) bool { return e.TaxID != nil && *e.TaxID == taxID })
}

func (m *memClients) FindByName(_ context.Context, name string) (*model.Entity, error) {
	return m.find(func(e model.Entity) bool {
		return strings.Contains(strings.ToLower(e.LegalName), strings.ToLower(name))
	})
}

func (m *memClients) FindActiveTerms(_ context.Context, entityID int64) (*model.CommercialTerms, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.terms {
		if m.terms[i].EntityID == entityID && m.terms[i].IsActive {
			return &m.terms[i], nil
		}
	}
	return nil, nil
}

func (m *memClients) find(match func(model.Entity) bool) (*model.Entity, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.entities {
		if match(m.entities[i]) {
			return &m.entities[i], nil
		}
	}
	return nil, nil
}

type memQuotations struct {
	rows []model.Quotation
	err  error
}

func (m *memQuotations) FindPendingByCUIT(_ context.Context, cuit string, now time.Time) (*model.Quotation, error) {
	return m.find(now, func(q model.Quotation) bool { return q.CustomerCUIT != nil && *q.CustomerCUIT == cuit })
}

func (m *memQuotations) FindPendingByNameAndDestination(_ context.Context, name, destination string, now time.Time) (*model.Quotation, error) {
	return m.find(now, func(q model.Quotation) bool {
		return strings.Contains(strings.ToLower(q.CustomerName), strings.ToLower(name)) &&
			strings.Contains(strings.ToLower(q.Destination), strings.ToLower(destination))
	})
}

func (m *memQuotations) find(now time.Time, match func(model.Quotation) bool) (*model.Quotation, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.rows {
		q := m.rows[i]
		if q.Status == model.QuotationPending && !q.ValidUntil.Before(now) && match(q) {
			return &m.rows[i], nil
		}
	}
	return nil, nil
}

type fixture struct {
	clients    *memClients
	tariffs    *memTariffs
	quotations *memQuotations
}

func newFixture() *fixture {
	return &fixture{clients: &memClients{}, tariffs: &memTariffs{}, quotations: &memQuotations{}}
}

func (f *fixture) engine() *Engine {
	return NewEngine(f.clients, f.tariffs, f.quotations, DefaultConfig()).
		WithClock(func() time.Time { return fixedNow })
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got *decimal.Decimal) {
	t.Helper()
	require.NotNil(t, got)
	assert.True(t, got.Equal(dec(want)), "got %s, want %s", got, want)
}

func pendingQuotation(id int64, cuit string, weight string, packages int) model.Quotation {
	return model.Quotation{
		ID:                     id,
		CustomerName:           "Distribuidora Norte",
		CustomerCUIT:           &cuit,
		Destination:            "San Salvador de Jujuy",
		WeightKg:               dec(weight),
		PackageQuantity:        packages,
		WeightTolerancePercent: dec("10"),
		TotalPrice:             dec("18500"),
		Status:                 model.QuotationPending,
		ValidUntil:             fixedNow.Add(72 * time.Hour),
	}
}

func TestEngine_ContractClientWithoutTerms(t *testing.T) {
	f := newFixture()
	f.clients.entities = []model.Entity{{ID: 1, LegalName: "Ferretería Central", ClientType: model.ClientTypeRegular}}
	f.tariffs.rows = []model.Tariff{tariff(9, "Buenos Aires", "San Salvador de Jujuy", model.TariffTypeStandard, 50, 5000)}

	res, err := f.engine().Price(context.Background(), Request{ClientID: 1, WeightKg: 50, DeclaredValue: 10000})
	require.NoError(t, err)

	assert.Equal(t, PathContract, res.Path)
	assert.Equal(t, "green", res.Tag.Color)
	assert.Equal(t, SourceContract, res.Pricing.Source)
	assertDecimal(t, "5080", res.Pricing.Price)
	assertDecimal(t, "5000", res.Pricing.Breakdown.ListFreight)
	assertDecimal(t, "80", res.Pricing.Breakdown.Insurance)
	assert.Nil(t, res.Pricing.Breakdown.Discount)
	assert.Nil(t, res.Validation)
	assert.False(t, res.NeedsReview())
	assert.False(t, res.Client.IsNew)
	assert.Equal(t, model.ClientTypeRegular, res.Client.Type)
	require.NotNil(t, res.Pricing.TariffID)
	assert.Equal(t, int64(9), *res.Pricing.TariffID)
}

func TestEngine_ContractModifierAndTerms(t *testing.T) {
	origin := "Córdoba"
	f := newFixture()
	f.clients.entities = []model.Entity{{ID: 2, LegalName: "Agro SA", ClientType: model.ClientTypeOccasional}}
	f.clients.terms = []model.CommercialTerms{{
		EntityID:       2,
		TariffType:     "preferencial",
		TariffModifier: dec("-10"),
		InsuranceRate:  dec("0.01"),
		CreditDays:     30,
		Origin:         &origin,
		IsActive:       true,
	}}
	f.tariffs.rows = []model.Tariff{
		tariff(1, "Buenos Aires", "San Salvador de Jujuy", model.TariffTypeStandard, 100, 9999),
		tariff(2, "Córdoba", "San Salvador de Jujuy", model.TariffTypeStandard, 100, 8000),
	}

	res, err := f.engine().Price(context.Background(), Request{ClientID: 2, WeightKg: 95, DeclaredValue: 20000})
	require.NoError(t, err)

	assert.Equal(t, PathContract, res.Path)
	b := res.Pricing.Breakdown
	require.NotNil(t, b)
	assertDecimal(t, "8000", b.ListFreight)
	assertDecimal(t, "-800", b.Discount)
	assertDecimal(t, "7200", b.FinalFreight)
	assertDecimal(t, "200", b.Insurance)
	assert.Equal(t, "preferencial", b.TariffType)
	assertDecimal(t, "7400", res.Pricing.Price)
	require.NotNil(t, res.CommercialTerms)
	assert.Equal(t, 30, res.CommercialTerms.CreditDays)
	assert.Contains(t, res.Tag.Description, "(-10%)")
}

func TestEngine_ContractByPaymentTerms(t *testing.T) {
	f := newFixture()
	f.clients.entities = []model.Entity{{ID: 3, LegalName: "Kiosco Sur", ClientType: model.ClientTypeOccasional, PaymentTerms: model.PaymentCuentaCorriente}}

	res, err := f.engine().Price(context.Background(), Request{RecipientName: "kiosco", WeightKg: 10})
	require.NoError(t, err)

	assert.Equal(t, PathContract, res.Path)
	assert.Nil(t, res.Pricing.Price, "no tariff means no price on the contract path")
	assert.Nil(t, res.Validation)
}

func TestEngine_ContractAssignedTariffIsReported(t *testing.T) {
	assigned := int64(77)
	f := newFixture()
	f.clients.entities = []model.Entity{{ID: 4, LegalName: "Textil SRL", ClientType: model.ClientTypeRegular, AssignedTariffID: &assigned}}
	f.tariffs.rows = []model.Tariff{tariff(5, "Buenos Aires", "Jujuy", model.TariffTypeStandard, 10, 1200)}

	res, err := f.engine().Price(context.Background(), Request{ClientID: 4, WeightKg: 3})
	require.NoError(t, err)

	require.NotNil(t, res.Pricing.TariffID)
	assert.Equal(t, assigned, *res.Pricing.TariffID)
	assertDecimal(t, "1200", res.Pricing.Price)
	assert.Nil(t, res.Pricing.Breakdown.Insurance)
}

func TestEngine_GeneralFallbackRate(t *testing.T) {
	f := newFixture()

	res, err := f.engine().Price(context.Background(), Request{
		RecipientName: "Juan Pérez",
		WeightKg:      20,
		VolumeM3:      0.1,
		DeclaredValue: 5000,
	})
	require.NoError(t, err)

	assert.Equal(t, PathGeneral, res.Path)
	assert.Equal(t, "red", res.Tag.Color)
	assert.True(t, res.NeedsReview())
	assert.True(t, res.Client.IsNew)
	assert.Equal(t, "Juan Pérez", res.Client.Name)
	assert.Equal(t, model.ClientTypeOccasional, res.Client.Type)
	assertDecimal(t, "30", res.Pricing.Breakdown.ChargedWeight)
	assertDecimal(t, "15000", res.Pricing.Breakdown.ListFreight)
	assertDecimal(t, "40", res.Pricing.Breakdown.Insurance)
	assertDecimal(t, "15040", res.Pricing.Price)
	require.NotNil(t, res.Debug.Weight)
	assert.True(t, res.Debug.Weight.UsesVolumetric)
}

func TestEngine_GeneralUsesTariffAndStillNeedsReview(t *testing.T) {
	f := newFixture()
	f.tariffs.rows = []model.Tariff{tariff(3, "Buenos Aires", "Salta", model.TariffTypeStandard, 30, 3100)}

	res, err := f.engine().Price(context.Background(), Request{Destination: "salta", WeightKg: 25})
	require.NoError(t, err)

	assert.Equal(t, PathGeneral, res.Path)
	assert.Equal(t, "Cliente nuevo", res.Client.Name)
	assertDecimal(t, "3100", res.Pricing.Price)
	assert.True(t, res.NeedsReview())
}

func TestEngine_GeneralWithoutWeightHasNoPrice(t *testing.T) {
	res, err := newFixture().engine().Price(context.Background(), Request{})
	require.NoError(t, err)

	assert.Equal(t, PathGeneral, res.Path)
	assert.Nil(t, res.Pricing.Price)
	assert.True(t, res.NeedsReview())
	assert.Equal(t, DefaultOrigin, res.Debug.Input.Origin)
	assert.Equal(t, DefaultDestination, res.Debug.Input.Destination)
}

func TestEngine_QuotationWeightDeviation(t *testing.T) {
	f := newFixture()
	f.quotations.rows = []model.Quotation{pendingQuotation(12, "20-12345678-9", "200", 5)}

	res, err := f.engine().Price(context.Background(), Request{RecipientCUIT: "20-12345678-9", WeightKg: 250, PackageQuantity: 5})
	require.NoError(t, err)

	assert.Equal(t, PathQuotation, res.Path)
	assert.Equal(t, "yellow", res.Tag.Color)
	assert.Equal(t, "PRESUPUESTO #12", res.Tag.Label)
	assert.True(t, res.NeedsReview())
	assert.Contains(t, res.Validation.Reason, "25.0%")
	assert.NotContains(t, res.Validation.Reason, "Bultos")
	assertDecimal(t, "18500", res.Pricing.Price)
	require.NotNil(t, res.Pricing.QuotationID)
	assert.Equal(t, int64(12), *res.Pricing.QuotationID)
	assert.True(t, res.Client.IsNew)
	require.NotNil(t, res.Client.CUIT)
	assert.Equal(t, "20-12345678-9", *res.Client.CUIT)
}

func TestEngine_QuotationTolerance(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		review bool
	}{
		{"above tolerance", 115, true},
		{"within tolerance", 108, false},
		{"exactly at tolerance", 110, false},
		{"below declared", 85, true},
		{"no weight reported", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.quotations.rows = []model.Quotation{pendingQuotation(1, "30712345674", "100", 0)}

			res, err := f.engine().Price(context.Background(), Request{RecipientCUIT: "30712345674", WeightKg: tt.weight})
			require.NoError(t, err)

			assert.Equal(t, PathQuotation, res.Path)
			assert.Equal(t, tt.review, res.NeedsReview())
			assertDecimal(t, "18500", res.Pricing.Price)
		})
	}
}

func TestEngine_QuotationBothReasons(t *testing.T) {
	f := newFixture()
	f.quotations.rows = []model.Quotation{pendingQuotation(4, "20111111112", "100", 3)}

	res, err := f.engine().Price(context.Background(), Request{RecipientCUIT: "20111111112", WeightKg: 150, PackageQuantity: 4})
	require.NoError(t, err)

	require.True(t, res.NeedsReview())
	parts := strings.Split(res.Validation.Reason, "; ")
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], "50.0%")
	assert.Contains(t, parts[1], "Bultos reales (4) difieren de cotizados (3)")
}

func TestEngine_QuotationByDashlessCUIT(t *testing.T) {
	f := newFixture()
	f.quotations.rows = []model.Quotation{pendingQuotation(8, "20123456789", "100", 0)}

	res, err := f.engine().Price(context.Background(), Request{RecipientCUIT: "20-12345678-9", WeightKg: 100})
	require.NoError(t, err)

	assert.Equal(t, PathQuotation, res.Path)
}

func TestEngine_QuotationByNameAndDestinationAlias(t *testing.T) {
	f := newFixture()
	q := pendingQuotation(6, "27000000006", "40", 2)
	q.Destination = "Jujuy"
	f.quotations.rows = []model.Quotation{q}

	res, err := f.engine().Price(context.Background(), Request{RecipientName: "norte", Destination: "JUJUY", WeightKg: 40, PackageQuantity: 2})
	require.NoError(t, err)

	assert.Equal(t, PathQuotation, res.Path)
	assert.False(t, res.NeedsReview())
	assert.Equal(t, "Precio pre-acordado - Cobrar antes de entregar", res.Tag.Description)
}

func TestEngine_ExpiredQuotationFallsThroughToGeneral(t *testing.T) {
	f := newFixture()
	q := pendingQuotation(2, "20123456789", "100", 1)
	q.ValidUntil = fixedNow.Add(-time.Minute)
	f.quotations.rows = []model.Quotation{q}

	res, err := f.engine().Price(context.Background(), Request{RecipientCUIT: "20123456789", WeightKg: 100})
	require.NoError(t, err)

	assert.Equal(t, PathGeneral, res.Path)
}

func TestEngine_ContractTakesPrecedenceOverQuotation(t *testing.T) {
	cuit := "30700000001"
	f := newFixture()
	f.clients.entities = []model.Entity{{ID: 10, LegalName: "Mayorista Andino", TaxID: &cuit, ClientType: model.ClientTypeRegular}}
	f.quotations.rows = []model.Quotation{pendingQuotation(3, cuit, "10", 1)}

	res, err := f.engine().Price(context.Background(), Request{RecipientCUIT: cuit, WeightKg: 10})
	require.NoError(t, err)

	assert.Equal(t, PathContract, res.Path)
}

func TestEngine_KnownOccasionalClientUsesOwnQuotation(t *testing.T) {
	cuit := "30700000002"
	f := newFixture()
	f.clients.entities = []model.Entity{{ID: 11, LegalName: "Almacén Quebrada", TaxID: &cuit, ClientType: model.ClientTypeOccasional}}
	f.quotations.rows = []model.Quotation{pendingQuotation(5, cuit, "10", 1)}

	res, err := f.engine().Price(context.Background(), Request{ClientID: 11, WeightKg: 10})
	require.NoError(t, err)

	assert.Equal(t, PathQuotation, res.Path)
	assert.False(t, res.Client.IsNew)
	assert.Equal(t, "Almacén Quebrada", res.Client.Name)
}

func TestEngine_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("db down")

	t.Run("clients", func(t *testing.T) {
		f := newFixture()
		f.clients.err = boom
		_, err := f.engine().Price(context.Background(), Request{ClientID: 1})
		assert.ErrorIs(t, err, boom)
	})
	t.Run("quotations", func(t *testing.T) {
		f := newFixture()
		f.quotations.err = boom
		_, err := f.engine().Price(context.Background(), Request{RecipientCUIT: "1"})
		assert.ErrorIs(t, err, boom)
	})
	t.Run("tariffs", func(t *testing.T) {
		f := newFixture()
		f.tariffs.err = boom
		_, err := f.engine().Price(context.Background(), Request{WeightKg: 5})
		assert.ErrorIs(t, err, boom)
	})
}
