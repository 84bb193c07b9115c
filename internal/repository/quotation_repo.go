package repository

import (
	"context"
	"time"

	"freightdesk/internal/model"

	"gorm.io/gorm"
)

type QuotationRepository interface {
	Create(ctx context.Context, quotation *model.Quotation) error
	Update(ctx context.Context, quotation *model.Quotation) error
	FindByID(ctx context.Context, id int64) (*model.Quotation, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Quotation, int64, error)
	FindPendingByCUIT(ctx context.Context, cuit string, now time.Time) (*model.Quotation, error)
	FindPendingByNameAndDestination(ctx context.Context, name, destination string, now time.Time) (*model.Quotation, error)
}

type quotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, quotation *model.Quotation) error {
	return GetDB(ctx, r.db).Create(quotation).Error
}

func (r *quotationRepository) Update(ctx context.Context, quotation *model.Quotation) error {
	return GetDB(ctx, r.db).Save(quotation).Error
}

func (r *quotationRepository) FindByID(ctx context.Context, id int64) (*model.Quotation, error) {
	var quotation model.Quotation
	err := GetDB(ctx, r.db).First(&quotation, "id = ?", id).Error
	return found(&quotation, err)
}

func (r *quotationRepository) List(ctx context.Context, status string, page, limit int) ([]model.Quotation, int64, error) {
	var quotations []model.Quotation
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Quotation{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQuery := db.Model(&model.Quotation{})
	if status != "" {
		fetchQuery = fetchQuery.Where("status = ?", status)
	}
	if err := fetchQuery.Order("created_at DESC").Offset(offset).Limit(limit).Find(&quotations).Error; err != nil {
		return nil, 0, err
	}

	return quotations, total, nil
}

func (r *quotationRepository) FindPendingByCUIT(ctx context.Context, cuit string, now time.Time) (*model.Quotation, error) {
	var quotation model.Quotation
	err := pendingAt(GetDB(ctx, r.db), now).
		Where("customer_cuit = ?", cuit).
		First(&quotation).Error
	return found(&quotation, err)
}

func (r *quotationRepository) FindPendingByNameAndDestination(ctx context.Context, name, destination string, now time.Time) (*model.Quotation, error) {
	var quotation model.Quotation
	err := pendingAt(GetDB(ctx, r.db), now).
		Where("customer_name ILIKE ? AND destination ILIKE ?", "%"+name+"%", "%"+destination+"%").
		First(&quotation).Error
	return found(&quotation, err)
}

// pendingAt keeps quotations still open at now, newest first.
func pendingAt(db *gorm.DB, now time.Time) *gorm.DB {
	return db.
		Where("status = ? AND valid_until >= ?", model.QuotationPending, now).
		Order("created_at DESC")
}
