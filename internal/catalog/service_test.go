package catalog

import (
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/orcalabs/orcamentos-backend/pkg/errors"
)

func TestValidateName(t *testing.T) {
	if err := validateName("Instalação"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	err := validateName("   ")
	if err == nil {
		t.Fatal("expected validation error for blank name")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error code, got %v", err)
	}
}

func TestValidatePrice(t *testing.T) {
	if err := validatePrice(decimal.Zero); err != nil {
		t.Fatalf("expected zero price to be valid, got %v", err)
	}
	if err := validatePrice(decimal.RequireFromString("19.90")); err != nil {
		t.Fatalf("expected positive price to be valid, got %v", err)
	}

	err := validatePrice(decimal.RequireFromString("-0.01"))
	if err == nil {
		t.Fatal("expected validation error for negative price")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error code, got %v", err)
	}
}
