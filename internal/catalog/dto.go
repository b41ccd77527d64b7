package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orcalabs/orcamentos-backend/pkg/db/models"
)

// ProductDTO represents the catalog product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Enabled     bool            `json:"enabled"`
	Addons      []AddonDTO      `json:"addons"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// AddonDTO represents an add-on payload returned to clients.
type AddonDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Enabled     bool            `json:"enabled"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Enabled:     product.Enabled,
		Addons:      make([]AddonDTO, 0, len(product.Addons)),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	for i := range product.Addons {
		dto.Addons = append(dto.Addons, *NewAddonDTO(&product.Addons[i]))
	}
	return dto
}

// NewAddonDTO builds a DTO from the persisted model.
func NewAddonDTO(addon *models.Addon) *AddonDTO {
	return &AddonDTO{
		ID:          addon.ID,
		Name:        addon.Name,
		Description: addon.Description,
		Price:       addon.Price,
		Enabled:     addon.Enabled,
		CreatedAt:   addon.CreatedAt,
		UpdatedAt:   addon.UpdatedAt,
	}
}
