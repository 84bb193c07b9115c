package repository

import (
	"context"
	"errors"

	"freightdesk/internal/model"

	"gorm.io/gorm"
)

// EntityRepository reads and writes counterparties and their commercial terms.
// Finders return (nil, nil) when nothing matches.
type EntityRepository interface {
	Create(ctx context.Context, entity *model.Entity) error
	CreateTerms(ctx context.Context, terms *model.CommercialTerms) error
	FindByID(ctx context.Context, id int64) (*model.Entity, error)
	FindByTaxID(ctx context.Context, taxID string) (*model.Entity, error)
	FindByName(ctx context.Context, name string) (*model.Entity, error)
	FindActiveTerms(ctx context.Context, entityID int64) (*model.CommercialTerms, error)
	Search(ctx context.Context, taxID, name string, limit int) ([]model.Entity, error)
}

type entityRepository struct {
	db *gorm.DB
}

func NewEntityRepository(db *gorm.DB) EntityRepository {
	return &entityRepository{db: db}
}

func (r *entityRepository) Create(ctx context.Context, entity *model.Entity) error {
	return GetDB(ctx, r.db).Create(entity).Error
}

func (r *entityRepository) CreateTerms(ctx context.Context, terms *model.CommercialTerms) error {
	return GetDB(ctx, r.db).Create(terms).Error
}

func (r *entityRepository) FindByID(ctx context.Context, id int64) (*model.Entity, error) {
	var entity model.Entity
	err := GetDB(ctx, r.db).First(&entity, "id = ?", id).Error
	return found(&entity, err)
}

func (r *entityRepository) FindByTaxID(ctx context.Context, taxID string) (*model.Entity, error) {
	var entity model.Entity
	err := GetDB(ctx, r.db).Where("tax_id = ?", taxID).First(&entity).Error
	return found(&entity, err)
}

func (r *entityRepository) FindByName(ctx context.Context, name string) (*model.Entity, error) {
	var entity model.Entity
	err := GetDB(ctx, r.db).Where("legal_name ILIKE ?", "%"+name+"%").First(&entity).Error
	return found(&entity, err)
}

func (r *entityRepository) FindActiveTerms(ctx context.Context, entityID int64) (*model.CommercialTerms, error) {
	var terms model.CommercialTerms
	err := GetDB(ctx, r.db).
		Where("entity_id = ? AND is_active = ?", entityID, true).
		Order("updated_at DESC").
		First(&terms).Error
	return found(&terms, err)
}

func (r *entityRepository) Search(ctx context.Context, taxID, name string, limit int) ([]model.Entity, error) {
	var entities []model.Entity

	query := GetDB(ctx, r.db).Model(&model.Entity{})
	if taxID != "" {
		query = query.Where("tax_id = ?", taxID)
	}
	if name != "" {
		query = query.Where("legal_name ILIKE ?", "%"+name+"%")
	}

	if err := query.Order("legal_name ASC").Limit(limit).Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// found turns gorm's not-found error into a (nil, nil) miss.
func found[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
