package persistence

import (
	"errors"
	"strings"

	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// Models lists every table the storefront owns, parents before children
func Models() []any {
	return []any{
		&models.CategoryModel{},
		&models.ProductModel{},
		&models.ProductViewModel{},
		&models.ProductVariantModel{},
		&models.PriceTierModel{},
		&models.UserModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.DesignElementModel{},
	}
}

// AutoMigrate creates the schema from the models.
// Postgres deployments use the SQL migrations instead; this serves SQLite and tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// isUniqueViolation reports whether err is a unique key conflict.
// TranslateError covers both drivers; the message check covers connections opened without it.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
