package enums

import "fmt"

// BudgetStatus tracks a budget through its approval lifecycle.
type BudgetStatus string

const (
	BudgetStatusDraft           BudgetStatus = "DRAFT"
	BudgetStatusPendingApproval BudgetStatus = "PENDING_APPROVAL"
	BudgetStatusApproved        BudgetStatus = "APPROVED"
	BudgetStatusRejected        BudgetStatus = "REJECTED"
	BudgetStatusSold            BudgetStatus = "SOLD"
)

var validBudgetStatuses = []BudgetStatus{
	BudgetStatusDraft,
	BudgetStatusPendingApproval,
	BudgetStatusApproved,
	BudgetStatusRejected,
	BudgetStatusSold,
}

// String implements fmt.Stringer.
func (b BudgetStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BudgetStatus.
func (b BudgetStatus) IsValid() bool {
	for _, candidate := range validBudgetStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition can leave the status.
func (b BudgetStatus) IsTerminal() bool {
	return b == BudgetStatusSold || b == BudgetStatusRejected
}

// Editable reports whether budget contents may still be mutated.
func (b BudgetStatus) Editable() bool {
	return b != BudgetStatusSold
}

// ParseBudgetStatus converts raw input into a BudgetStatus.
func ParseBudgetStatus(value string) (BudgetStatus, error) {
	for _, candidate := range validBudgetStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid budget status %q", value)
}
