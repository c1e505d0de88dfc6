package store

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
	apperrors "github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/pkg/errors"
)

// CreatePurchase records a sale and opens (or reuses) the buyer/seller
// conversation with an auto-generated greeting. The purchase row, the
// conversation and the message commit or roll back as one unit; a failure
// after the purchase insert cannot leave an orphaned purchase behind.
func (s *Store) CreatePurchase(ctx context.Context, buyerID, productID uint) (*models.Purchase, *models.Conversation, error) {
	var (
		purchase models.Purchase
		conv     *models.Conversation
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txStore := s.withTx(tx)

		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProductNotFound
			}
			return errors.Wrap(err, "store.CreatePurchase.product")
		}
		if product.OwnerID == buyerID {
			return apperrors.ErrOwnProduct
		}

		purchase = models.Purchase{
			BuyerID:   buyerID,
			SellerID:  product.OwnerID,
			ProductID: product.ID,
			Amount:    product.Price, // price snapshot
			Status:    models.PurchaseCompleted,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return errors.Wrap(err, "store.CreatePurchase.insert")
		}

		c, err := txStore.EnsureConversation(ctx, buyerID, product.OwnerID)
		if err != nil {
			return err
		}

		greeting := fmt.Sprintf(
			"Hi! I just bought your product %q for $%.2f. Can we arrange the delivery?",
			product.Name, product.Price,
		)
		if _, err := txStore.AppendMessage(ctx, c.ID, buyerID, greeting); err != nil {
			return err
		}

		conv = c
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &purchase, conv, nil
}

// PurchasesFor lists the user's purchase history (as buyer or seller), newest
// first. Deleted products leave their name fields empty rather than hiding
// the record.
func (s *Store) PurchasesFor(ctx context.Context, userID uint) ([]models.PurchaseView, error) {
	var views []models.PurchaseView
	err := s.db.WithContext(ctx).
		Table("purchases").
		Select(`purchases.id, purchases.buyer_id, purchases.seller_id, purchases.product_id,
			purchases.amount, purchases.status, purchases.created_at,
			COALESCE(products.name, '') AS product_name,
			COALESCE(products.type, '') AS product_type,
			buyers.username AS buyer_username,
			sellers.username AS seller_username`).
		Joins("LEFT JOIN products ON products.id = purchases.product_id").
		Joins("JOIN users AS buyers ON buyers.id = purchases.buyer_id").
		Joins("JOIN users AS sellers ON sellers.id = purchases.seller_id").
		Where("purchases.buyer_id = ? OR purchases.seller_id = ?", userID, userID).
		Order("purchases.created_at DESC, purchases.id DESC").
		Scan(&views).Error
	if err != nil {
		return nil, errors.Wrap(err, "store.PurchasesFor.scan")
	}
	return views, nil
}
