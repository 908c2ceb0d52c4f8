// Package inventory applies stock movements for sale lines.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"gorm.io/gorm"
)

// Reserve takes qty units out of the product's inventory in memory. The
// caller persists the product inside its own unit of work.
func Reserve(product *models.Product, qty int) error {
	if qty > product.Inventory {
		msg := fmt.Sprintf("The product %s exced the enable quantity", product.Name)
		return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails([]string{msg})
	}
	product.Inventory -= qty
	return nil
}

// Release returns qty units to the product's inventory. A product that no
// longer exists is skipped so a reversal can still complete.
func Release(ctx context.Context, tx *gorm.DB, productID int64, qty int) error {
	var product models.Product
	if err := tx.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	product.Inventory += qty
	return tx.WithContext(ctx).Save(&product).Error
}
