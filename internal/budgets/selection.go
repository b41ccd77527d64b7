package budget

import (
	"strings"

	"github.com/orcalabs/orcamentos-backend/pkg/db/models"
)

// SearchAddons filters add-ons by a case-insensitive substring match on the
// name. An empty query returns every add-on.
func SearchAddons(addons []models.Addon, query string) []models.Addon {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return addons
	}
	matched := make([]models.Addon, 0, len(addons))
	for _, addon := range addons {
		if strings.Contains(strings.ToLower(addon.Name), needle) {
			matched = append(matched, addon)
		}
	}
	return matched
}

// SetQuantity applies one selection change to an item's add-on rows. A
// non-positive quantity removes the add-on (a silent no-op when absent), an
// already selected add-on gets its quantity replaced, and a new add-on is
// inserted with name and price snapshots taken from the catalog row.
func SetQuantity(selection []models.BudgetItemAddon, addon models.Addon, quantity int) []models.BudgetItemAddon {
	if quantity <= 0 {
		kept := selection[:0]
		for _, row := range selection {
			if row.AddonID != addon.ID {
				kept = append(kept, row)
			}
		}
		return kept
	}

	for i := range selection {
		if selection[i].AddonID == addon.ID {
			selection[i].Quantity = quantity
			return selection
		}
	}

	return append(selection, models.BudgetItemAddon{
		AddonID:            addon.ID,
		AddonNameSnapshot:  addon.Name,
		AddonPriceSnapshot: addon.Price,
		Quantity:           quantity,
	})
}
