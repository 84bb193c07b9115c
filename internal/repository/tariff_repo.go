package repository

import (
	"context"

	"freightdesk/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TariffRepository interface {
	Create(ctx context.Context, tariff *model.Tariff) error
	CreateBatch(ctx context.Context, tariffs []model.Tariff) error
	List(ctx context.Context, origin, destination string, page, limit int) ([]model.Tariff, int64, error)
	FindBracket(ctx context.Context, origin, destination string, bucketKg decimal.Decimal) (*model.Tariff, error)
	FindAnyBracket(ctx context.Context, bucketKg decimal.Decimal) (*model.Tariff, error)
}

type tariffRepository struct {
	db *gorm.DB
}

func NewTariffRepository(db *gorm.DB) TariffRepository {
	return &tariffRepository{db: db}
}

func (r *tariffRepository) Create(ctx context.Context, tariff *model.Tariff) error {
	return GetDB(ctx, r.db).Create(tariff).Error
}

func (r *tariffRepository) CreateBatch(ctx context.Context, tariffs []model.Tariff) error {
	if len(tariffs) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).CreateInBatches(&tariffs, 200).Error
}

func (r *tariffRepository) List(ctx context.Context, origin, destination string, page, limit int) ([]model.Tariff, int64, error) {
	var tariffs []model.Tariff
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		if origin != "" {
			db = db.Where("origin ILIKE ?", "%"+origin+"%")
		}
		if destination != "" {
			db = db.Where("destination ILIKE ?", "%"+destination+"%")
		}
		return db
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Tariff{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Model(&model.Tariff{}).Scopes(scope).
		Order("origin ASC, destination ASC, weight_to_kg ASC").
		Offset(offset).Limit(limit).
		Find(&tariffs).Error; err != nil {
		return nil, 0, err
	}

	return tariffs, total, nil
}

// FindBracket returns the smallest non-volume bracket of the route covering bucketKg.
func (r *tariffRepository) FindBracket(ctx context.Context, origin, destination string, bucketKg decimal.Decimal) (*model.Tariff, error) {
	var tariff model.Tariff
	db := GetDB(ctx, r.db).Where("LOWER(origin) = LOWER(?) AND LOWER(destination) = LOWER(?)", origin, destination)
	err := coveringBracket(db, bucketKg).First(&tariff).Error
	return found(&tariff, err)
}

// FindAnyBracket is FindBracket across every route.
func (r *tariffRepository) FindAnyBracket(ctx context.Context, bucketKg decimal.Decimal) (*model.Tariff, error) {
	var tariff model.Tariff
	err := coveringBracket(GetDB(ctx, r.db), bucketKg).First(&tariff).Error
	return found(&tariff, err)
}

func coveringBracket(db *gorm.DB, bucketKg decimal.Decimal) *gorm.DB {
	return db.
		Where("tariff_type <> ?", model.TariffTypeVolume).
		Where("weight_to_kg >= ?", bucketKg).
		Order("weight_to_kg ASC")
}
