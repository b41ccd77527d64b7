package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orcalabs/orcamentos-backend/api/responses"
	"github.com/orcalabs/orcamentos-backend/api/validators"
	budget "github.com/orcalabs/orcamentos-backend/internal/budgets"
	"github.com/orcalabs/orcamentos-backend/internal/export"
	"github.com/orcalabs/orcamentos-backend/pkg/enums"
	pkgerrors "github.com/orcalabs/orcamentos-backend/pkg/errors"
	"github.com/orcalabs/orcamentos-backend/pkg/logger"
	"github.com/orcalabs/orcamentos-backend/pkg/pagination"
)

type budgetDetailsRequest struct {
	CustomerName      string          `json:"customerName" validate:"required"`
	CustomerEmail     *string         `json:"customerEmail,omitempty" validate:"omitempty,email"`
	CustomerPhone     string          `json:"customerPhone" validate:"required"`
	DiscountPercent   decimal.Decimal `json:"discountPercent"`
	CommissionPercent decimal.Decimal `json:"commissionPercent"`
	IssueInvoice      bool            `json:"issueInvoice"`
}

func (b budgetDetailsRequest) toInput() budget.BudgetDetailsInput {
	return budget.BudgetDetailsInput{
		CustomerName:      b.CustomerName,
		CustomerEmail:     b.CustomerEmail,
		CustomerPhone:     b.CustomerPhone,
		DiscountPercent:   b.DiscountPercent,
		CommissionPercent: b.CommissionPercent,
		IssueInvoice:      b.IssueInvoice,
	}
}

type addonSelectionRequest struct {
	AddonID  uuid.UUID `json:"addonId" validate:"required"`
	Quantity int       `json:"quantity" validate:"min=0"`
}

type budgetItemRequest struct {
	ProductID uuid.UUID               `json:"productId" validate:"required"`
	Addons    []addonSelectionRequest `json:"addons,omitempty"`
}

type createBudgetRequest struct {
	budgetDetailsRequest
	Items []budgetItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (c createBudgetRequest) toInput() budget.CreateBudgetInput {
	items := make([]budget.BudgetItemInput, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, budget.BudgetItemInput{
			ProductID: item.ProductID,
			Addons:    toAddonSelections(item.Addons),
		})
	}
	return budget.CreateBudgetInput{
		Details: c.budgetDetailsRequest.toInput(),
		Items:   items,
	}
}

func toAddonSelections(rows []addonSelectionRequest) []budget.AddonSelectionInput {
	selections := make([]budget.AddonSelectionInput, 0, len(rows))
	for _, row := range rows {
		selections = append(selections, budget.AddonSelectionInput{
			AddonID:  row.AddonID,
			Quantity: row.Quantity,
		})
	}
	return selections
}

// BudgetCreate opens a new budget with its initial item selection.
func BudgetCreate(svc budget.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createBudgetRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), actor, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// BudgetList pages through budgets visible to the actor.
func BudgetList(svc budget.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := budget.ListQuery{
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: validators.QueryString(r, "cursor"),
			},
			Search: validators.QueryString(r, "search"),
		}

		if raw := validators.QueryString(r, "status"); raw != "" {
			status, err := enums.ParseBudgetStatus(strings.ToUpper(raw))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			query.Status = &status
		}

		result, err := svc.List(r.Context(), actor, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// BudgetDetail returns one budget with items and add-on selections.
func BudgetDetail(svc budget.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, budgetID, err := actorAndBudgetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), actor, budgetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// BudgetUpdateDetails replaces the customer and commercial fields.
func BudgetUpdateDetails(svc budget.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, budgetID, err := actorAndBudgetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload budgetDetailsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateDetails(r.Context(), actor, budgetID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
}

// BudgetAddItem attaches a product to the budget.
func BudgetAddItem(svc budget.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, budgetID, err := actorAndBudgetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.AddItem(r.Context(), actor, budgetID, payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// BudgetRemoveItem detaches a product line from the budget.
func BudgetRemoveItem(svc budget.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, budgetID, err := actorAndBudgetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.RemoveItem(r.Context(), actor, budgetID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

type updateItemAddonsRequest struct {
	ItemID uuid.UUID               `json:"itemId" validate:"required"`
	Addons []addonSelectionRequest `json:"addons"`
}

// BudgetUpdateItemAddons replaces an item's add-on selection wholesale.
func BudgetUpdateItemAddons(svc budget.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, budgetID, err := actorAndBudgetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemAddonsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateItemAddons(r.Context(), actor, budgetID, budget.UpdateItemAddonsInput{
			BudgetItemID: payload.ItemID,
			Addons:       toAddonSelections(payload.Addons),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// BudgetApprove moves a pending budget to APPROVED.
func BudgetApprove(svc budget.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, budgetID, err := actorAndBudgetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Approve(r.Context(), actor, budgetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

type rejectBudgetRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// BudgetReject moves a pending budget to REJECTED with a reason.
func BudgetReject(svc budget.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, budgetID, err := actorAndBudgetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload rejectBudgetRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Reject(r.Context(), actor, budgetID, payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// BudgetSell marks an approved budget as SOLD, locking it.
func BudgetSell(svc budget.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, budgetID, err := actorAndBudgetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Sell(r.Context(), actor, budgetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// BudgetExport streams the budget as an XLSX download.
func BudgetExport(svc budget.Service, exporter export.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, budgetID, err := actorAndBudgetID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), actor, budgetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		data, filename, err := exporter.Document(dto)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render export"))
			return
		}

		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil && logg != nil {
			logg.Error(r.Context(), "export.write_failed", err)
		}
	}
}

func actorAndBudgetID(r *http.Request) (budget.Actor, uuid.UUID, error) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		return budget.Actor{}, uuid.Nil, err
	}
	budgetID, err := validators.ParseUUIDParam(r, "budgetId")
	if err != nil {
		return budget.Actor{}, uuid.Nil, err
	}
	return actor, budgetID, nil
}
