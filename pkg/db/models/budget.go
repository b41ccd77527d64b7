package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orcalabs/orcamentos-backend/pkg/enums"
)

// Budget is a customer quotation. Total is always recomputed from the items
// plus the discount percent and never accepted from clients. Commission
// percent is a back-office figure: persisted, returned, never priced in.
type Budget struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID          uuid.UUID          `gorm:"column:seller_id;type:uuid;not null;index"`
	CustomerName      string             `gorm:"column:customer_name;not null"`
	CustomerEmail     *string            `gorm:"column:customer_email"`
	CustomerPhone     string             `gorm:"column:customer_phone;not null"`
	DiscountPercent   decimal.Decimal    `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	CommissionPercent decimal.Decimal    `gorm:"column:commission_percent;type:numeric(5,2);not null"`
	IssueInvoice      bool               `gorm:"column:issue_invoice;not null;default:true"`
	Status            enums.BudgetStatus `gorm:"column:status;type:budget_status;not null;default:'DRAFT'"`
	RequiresApproval  bool               `gorm:"column:requires_approval;not null;default:false"`
	RejectionReason   *string            `gorm:"column:rejection_reason"`
	Total             decimal.Decimal    `gorm:"column:total;type:numeric(12,2);not null"`
	Items             []BudgetItem       `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`
	ApprovedAt        *time.Time         `gorm:"column:approved_at"`
	SoldAt            *time.Time         `gorm:"column:sold_at"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
