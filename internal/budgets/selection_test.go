package budget

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orcalabs/orcamentos-backend/pkg/db/models"
)

func namedAddon(name, price string) models.Addon {
	return models.Addon{
		ID:      uuid.New(),
		Name:    name,
		Price:   decimal.RequireFromString(price),
		Enabled: true,
	}
}

func TestSearchAddonsCaseInsensitiveSubstring(t *testing.T) {
	t.Parallel()

	lock := namedAddon("Lock", "10.00")
	key := namedAddon("Key", "5.00")
	clock := namedAddon("Clock", "20.00")
	addons := []models.Addon{lock, key, clock}

	matched := SearchAddons(addons, "loc")
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matched))
	}
	if matched[0].ID != lock.ID || matched[1].ID != clock.ID {
		t.Fatalf("expected Lock and Clock, got %q and %q", matched[0].Name, matched[1].Name)
	}
}

func TestSearchAddonsEmptyQueryReturnsAll(t *testing.T) {
	t.Parallel()

	addons := []models.Addon{namedAddon("A", "1.00"), namedAddon("B", "2.00")}
	if got := SearchAddons(addons, "   "); len(got) != len(addons) {
		t.Fatalf("expected all %d addons, got %d", len(addons), len(got))
	}
}

func TestSetQuantityInsertsWithSnapshots(t *testing.T) {
	t.Parallel()

	addon := namedAddon("Cabo extra", "15.00")
	selection := SetQuantity(nil, addon, 2)

	if len(selection) != 1 {
		t.Fatalf("expected 1 row, got %d", len(selection))
	}
	row := selection[0]
	if row.AddonID != addon.ID {
		t.Fatalf("expected addon id %s, got %s", addon.ID, row.AddonID)
	}
	if row.AddonNameSnapshot != addon.Name {
		t.Fatalf("expected name snapshot %q, got %q", addon.Name, row.AddonNameSnapshot)
	}
	if !row.AddonPriceSnapshot.Equal(addon.Price) {
		t.Fatalf("expected price snapshot %s, got %s", addon.Price, row.AddonPriceSnapshot)
	}
	if row.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", row.Quantity)
	}
}

func TestSetQuantityReplacesExisting(t *testing.T) {
	t.Parallel()

	addon := namedAddon("Suporte", "30.00")
	selection := SetQuantity(nil, addon, 1)
	selection = SetQuantity(selection, addon, 5)

	if len(selection) != 1 {
		t.Fatalf("expected 1 row after replace, got %d", len(selection))
	}
	if selection[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", selection[0].Quantity)
	}
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	t.Parallel()

	addon := namedAddon("Suporte", "30.00")
	other := namedAddon("Cabo", "12.00")
	selection := SetQuantity(nil, addon, 1)
	selection = SetQuantity(selection, other, 3)

	selection = SetQuantity(selection, addon, 0)
	if len(selection) != 1 || selection[0].AddonID != other.ID {
		t.Fatalf("expected only %q to remain, got %v", other.Name, selection)
	}
}

func TestSetQuantityNegativeClampsToRemoval(t *testing.T) {
	t.Parallel()

	addon := namedAddon("Suporte", "30.00")
	selection := SetQuantity(nil, addon, 2)
	selection = SetQuantity(selection, addon, -4)

	if len(selection) != 0 {
		t.Fatalf("expected empty selection, got %d rows", len(selection))
	}
}

func TestSetQuantityRemoveAbsentIsNoOp(t *testing.T) {
	t.Parallel()

	present := namedAddon("Presente", "10.00")
	absent := namedAddon("Ausente", "10.00")
	selection := SetQuantity(nil, present, 1)

	selection = SetQuantity(selection, absent, 0)
	if len(selection) != 1 || selection[0].AddonID != present.ID {
		t.Fatalf("expected selection untouched, got %v", selection)
	}
}
