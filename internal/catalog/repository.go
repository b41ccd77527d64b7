package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orcalabs/orcamentos-backend/pkg/db/models"
)

// Repository wires together product and add-on persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindProductByID loads the product with its linked add-ons.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Addons", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns products ordered by name, optionally filtered by a
// case-insensitive name search.
func (r *Repository) ListProducts(ctx context.Context, query string) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).
		Preload("Addons", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		})
	if search := strings.TrimSpace(query); search != "" {
		qb = qb.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var rows []models.Product
	err := qb.Order("name ASC").Find(&rows).Error
	return rows, err
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Addons").Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Addons").Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// ReplaceProductAddons replaces the product's add-on link set.
func (r *Repository) ReplaceProductAddons(ctx context.Context, productID uuid.UUID, addons []models.Addon) error {
	product := models.Product{ID: productID}
	return r.db.WithContext(ctx).Model(&product).Association("Addons").Replace(addons)
}

// ListProductAddons returns only the enabled add-ons linked to the product.
func (r *Repository) ListProductAddons(ctx context.Context, productID uuid.UUID) ([]models.Addon, error) {
	var rows []models.Addon
	err := r.db.WithContext(ctx).
		Joins("JOIN product_addons pa ON pa.addon_id = addons.id").
		Where("pa.product_id = ?", productID).
		Where("addons.enabled = ?", true).
		Order("addons.name ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindAddonByID loads a single add-on.
func (r *Repository) FindAddonByID(ctx context.Context, id uuid.UUID) (*models.Addon, error) {
	var addon models.Addon
	if err := r.db.WithContext(ctx).First(&addon, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &addon, nil
}

// ListAddons returns add-ons ordered by name, optionally filtered by a
// case-insensitive name search.
func (r *Repository) ListAddons(ctx context.Context, query string) ([]models.Addon, error) {
	qb := r.db.WithContext(ctx)
	if search := strings.TrimSpace(query); search != "" {
		qb = qb.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var rows []models.Addon
	err := qb.Order("name ASC").Find(&rows).Error
	return rows, err
}

// ListAddonsByIDs loads the add-ons matching the provided ids.
func (r *Repository) ListAddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Addon, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Addon
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

// CreateAddon inserts a new add-on row.
func (r *Repository) CreateAddon(ctx context.Context, addon *models.Addon) (*models.Addon, error) {
	if err := r.db.WithContext(ctx).Create(addon).Error; err != nil {
		return nil, err
	}
	return addon, nil
}

// UpdateAddon updates an existing add-on row.
func (r *Repository) UpdateAddon(ctx context.Context, addon *models.Addon) (*models.Addon, error) {
	if err := r.db.WithContext(ctx).Save(addon).Error; err != nil {
		return nil, err
	}
	return addon, nil
}
