package validation

import (
	"testing"

	domainerrors "github.com/breadcrumbsapp/breadcrumbs-server/internal/errors"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=10"`
	State string `json:"state" validate:"omitempty,oneof=draft published"`
}

func TestValidateOK(t *testing.T) {
	v := New()
	if err := v.Validate(sample{Name: "ok", State: "draft"}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateReturnsDomainError(t *testing.T) {
	v := New()
	err := v.Validate(sample{State: "secret"})
	if err == nil {
		t.Fatal("expected error")
	}

	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if domainErr.Code != domainerrors.CodeValidation {
		t.Errorf("code: got %s, want VALIDATION", domainErr.Code)
	}

	// Field errors are keyed by json tag name.
	details, ok := domainErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("details: got %T", domainErr.Details)
	}
	if details["name"] != "is required" {
		t.Errorf("name detail: got %q", details["name"])
	}
	if details["state"] == "" {
		t.Error("missing state detail")
	}
}
