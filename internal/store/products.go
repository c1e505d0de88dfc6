package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
	apperrors "github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/pkg/errors"
)

// ProductUpdate carries a partial update; nil fields keep their current value.
type ProductUpdate struct {
	Name  *string
	Type  *string
	Price *float64
}

func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "store.Products.find")
	}
	return products, nil
}

func (s *Store) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, errors.Wrap(err, "store.ProductByID.find")
	}
	return &product, nil
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return errors.Wrap(err, "store.CreateProduct.insert")
	}
	return nil
}

// UpdateProduct applies a partial update, but only for the product's owner.
func (s *Store) UpdateProduct(ctx context.Context, id, callerID uint, upd ProductUpdate) (*models.Product, error) {
	product, err := s.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.OwnerID != callerID {
		return nil, apperrors.ErrNotProductOwner
	}

	if upd.Name != nil {
		product.Name = *upd.Name
	}
	if upd.Type != nil {
		product.Type = *upd.Type
	}
	if upd.Price != nil {
		product.Price = *upd.Price
	}

	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, errors.Wrap(err, "store.UpdateProduct.save")
	}
	return product, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id, callerID uint) error {
	product, err := s.ProductByID(ctx, id)
	if err != nil {
		return err
	}
	if product.OwnerID != callerID {
		return apperrors.ErrNotProductOwner
	}

	if err := s.db.WithContext(ctx).Delete(product).Error; err != nil {
		return errors.Wrap(err, "store.DeleteProduct.delete")
	}
	return nil
}
