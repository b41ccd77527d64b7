package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orcalabs/orcamentos-backend/internal/pricing"
	"github.com/orcalabs/orcamentos-backend/pkg/db/models"
)

// BudgetDTO is the full budget payload returned to clients.
type BudgetDTO struct {
	ID                uuid.UUID       `json:"id"`
	SellerID          uuid.UUID       `json:"sellerId"`
	CustomerName      string          `json:"customerName"`
	CustomerEmail     *string         `json:"customerEmail,omitempty"`
	CustomerPhone     string          `json:"customerPhone"`
	DiscountPercent   decimal.Decimal `json:"discountPercent"`
	CommissionPercent decimal.Decimal `json:"commissionPercent"`
	IssueInvoice      bool            `json:"issueInvoice"`
	Status            string          `json:"status"`
	RequiresApproval  bool            `json:"requiresApproval"`
	RejectionReason   *string         `json:"rejectionReason,omitempty"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Total             decimal.Decimal `json:"total"`
	Items             []BudgetItemDTO `json:"items"`
	ApprovedAt        *time.Time      `json:"approvedAt,omitempty"`
	SoldAt            *time.Time      `json:"soldAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// BudgetItemDTO is one product line with its snapshots and add-on selection.
type BudgetItemDTO struct {
	ID           uuid.UUID            `json:"id"`
	ProductID    uuid.UUID            `json:"productId"`
	ProductName  string               `json:"productName"`
	ProductPrice decimal.Decimal      `json:"productPrice"`
	TotalPrice   decimal.Decimal      `json:"totalPrice"`
	Addons       []BudgetItemAddonDTO `json:"addons"`
}

// BudgetItemAddonDTO is one selected add-on line.
type BudgetItemAddonDTO struct {
	ID       uuid.UUID       `json:"id"`
	AddonID  uuid.UUID       `json:"addonId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// BudgetSummaryDTO is the listing payload without item detail.
type BudgetSummaryDTO struct {
	ID               uuid.UUID       `json:"id"`
	SellerID         uuid.UUID       `json:"sellerId"`
	CustomerName     string          `json:"customerName"`
	Status           string          `json:"status"`
	RequiresApproval bool            `json:"requiresApproval"`
	Total            decimal.Decimal `json:"total"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// BudgetListResult bundles one page of budgets with the next cursor.
type BudgetListResult struct {
	Budgets    []BudgetSummaryDTO `json:"budgets"`
	NextCursor string             `json:"nextCursor,omitempty"`
}

// NewBudgetDTO builds the full DTO from the persisted model.
func NewBudgetDTO(budget *models.Budget) *BudgetDTO {
	items := make([]BudgetItemDTO, 0, len(budget.Items))
	itemTotals := make([]decimal.Decimal, 0, len(budget.Items))
	for i := range budget.Items {
		item := &budget.Items[i]
		items = append(items, *NewBudgetItemDTO(item))
		itemTotals = append(itemTotals, item.TotalPrice)
	}

	return &BudgetDTO{
		ID:                budget.ID,
		SellerID:          budget.SellerID,
		CustomerName:      budget.CustomerName,
		CustomerEmail:     budget.CustomerEmail,
		CustomerPhone:     budget.CustomerPhone,
		DiscountPercent:   budget.DiscountPercent,
		CommissionPercent: budget.CommissionPercent,
		IssueInvoice:      budget.IssueInvoice,
		Status:            budget.Status.String(),
		RequiresApproval:  budget.RequiresApproval,
		RejectionReason:   budget.RejectionReason,
		Subtotal:          pricing.Subtotal(itemTotals),
		Total:             budget.Total,
		Items:             items,
		ApprovedAt:        budget.ApprovedAt,
		SoldAt:            budget.SoldAt,
		CreatedAt:         budget.CreatedAt,
		UpdatedAt:         budget.UpdatedAt,
	}
}

// NewBudgetItemDTO builds the item DTO from the persisted model.
func NewBudgetItemDTO(item *models.BudgetItem) *BudgetItemDTO {
	addons := make([]BudgetItemAddonDTO, 0, len(item.Addons))
	for _, row := range item.Addons {
		addons = append(addons, BudgetItemAddonDTO{
			ID:       row.ID,
			AddonID:  row.AddonID,
			Name:     row.AddonNameSnapshot,
			Price:    row.AddonPriceSnapshot,
			Quantity: row.Quantity,
		})
	}
	return &BudgetItemDTO{
		ID:           item.ID,
		ProductID:    item.ProductID,
		ProductName:  item.ProductNameSnapshot,
		ProductPrice: item.ProductPriceSnapshot,
		TotalPrice:   item.TotalPrice,
		Addons:       addons,
	}
}

// NewBudgetSummaryDTO builds the listing DTO from the persisted model.
func NewBudgetSummaryDTO(budget *models.Budget) BudgetSummaryDTO {
	return BudgetSummaryDTO{
		ID:               budget.ID,
		SellerID:         budget.SellerID,
		CustomerName:     budget.CustomerName,
		Status:           budget.Status.String(),
		RequiresApproval: budget.RequiresApproval,
		Total:            budget.Total,
		CreatedAt:        budget.CreatedAt,
		UpdatedAt:        budget.UpdatedAt,
	}
}
