package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetItemAddon records a selected add-on with its quantity and price
// snapshot. Quantity is always positive: zero-quantity selections are
// deleted, never stored.
type BudgetItemAddon struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BudgetItemID       uuid.UUID       `gorm:"column:budget_item_id;type:uuid;not null;uniqueIndex:idx_item_addon"`
	AddonID            uuid.UUID       `gorm:"column:addon_id;type:uuid;not null;uniqueIndex:idx_item_addon"`
	AddonNameSnapshot  string          `gorm:"column:addon_name_snapshot;not null"`
	AddonPriceSnapshot decimal.Decimal `gorm:"column:addon_price_snapshot;type:numeric(12,2);not null"`
	Quantity           int             `gorm:"column:quantity;not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
