package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetItem places one product on a budget. Name and price are snapshots
// captured when the item was added so historical budgets survive catalog
// edits. A product appears at most once per budget.
type BudgetItem struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BudgetID             uuid.UUID         `gorm:"column:budget_id;type:uuid;not null;uniqueIndex:idx_budget_product"`
	ProductID            uuid.UUID         `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_budget_product"`
	ProductNameSnapshot  string            `gorm:"column:product_name_snapshot;not null"`
	ProductPriceSnapshot decimal.Decimal   `gorm:"column:product_price_snapshot;type:numeric(12,2);not null"`
	TotalPrice           decimal.Decimal   `gorm:"column:total_price;type:numeric(12,2);not null"`
	Addons               []BudgetItemAddon `gorm:"foreignKey:BudgetItemID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
