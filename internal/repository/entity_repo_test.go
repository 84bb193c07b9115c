package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityRepository_FindByTaxID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db)

	rows := sqlmock.NewRows([]string{"id", "legal_name", "tax_id", "client_type", "payment_terms"}).
		AddRow(7, "Ferretería Central", "30-71234567-4", "regular", "cuenta_corriente")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "entities" WHERE tax_id = $1 AND "entities"."deleted_at" IS NULL`)).
		WillReturnRows(rows)

	e, err := repo.FindByTaxID(context.Background(), "30-71234567-4")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, int64(7), e.ID)
	assert.Equal(t, "regular", e.ClientType)
	require.NotNil(t, e.TaxID)
	assert.Equal(t, "30-71234567-4", *e.TaxID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_MissIsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "entities" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	e, err := repo.FindByID(context.Background(), 99)
	assert.NoError(t, err)
	assert.Nil(t, e)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_FindByNameUsesSubstring(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE legal_name ILIKE $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "legal_name"}).AddRow(3, "Distribuidora Norte"))

	e, err := repo.FindByName(context.Background(), "norte")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "Distribuidora Norte", e.LegalName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_FindActiveTerms(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db)

	rows := sqlmock.NewRows([]string{"id", "entity_id", "tariff_type", "tariff_modifier", "insurance_rate", "credit_days", "is_active"}).
		AddRow(1, 7, "preferencial", "-15.00", "0.01000", 30, true)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "client_commercial_terms" WHERE entity_id = $1 AND is_active = $2 ORDER BY updated_at DESC`)).
		WillReturnRows(rows)

	terms, err := repo.FindActiveTerms(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, terms)
	assert.Equal(t, "preferencial", terms.TariffType)
	assert.Equal(t, "-15", terms.TariffModifier.String())
	assert.Equal(t, 30, terms.CreditDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_PropagatesErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db)

	boom := errors.New("connection refused")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "client_commercial_terms"`)).WillReturnError(boom)

	_, err := repo.FindActiveTerms(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestEntityRepository_Search(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE tax_id = $1 AND legal_name ILIKE $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "legal_name"}).
			AddRow(1, "Agro Norte SA").
			AddRow(2, "Agro Norte SRL"))

	entities, err := repo.Search(context.Background(), "30712345674", "agro", 10)
	require.NoError(t, err)
	assert.Len(t, entities, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
