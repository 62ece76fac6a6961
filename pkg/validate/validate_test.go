package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/bazaar/pkg/validate"
)

type productInput struct {
	Name        string  `json:"name"        validate:"required,min=2,max=255"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price"       validate:"required,numeric,gte=0"`
	Quantity    int     `json:"quantity"    validate:"required,integer,gte=0"`
	Shipping    float64 `json:"shipping"    validate:"required,numeric"`
	Color       string  `json:"color"       validate:"required"`
	Mode        string  `json:"mode"        validate:"nullable,in=cod,gateway"`
	Site        string  `json:"site"        validate:"nullable,url"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(productInput{
		Name:        "Widget",
		Description: "A fine widget",
		Price:       10.5,
		Quantity:    3,
		Shipping:    5,
		Color:       "red",
		Mode:        "cod",
		Site:        "", // nullable — allowed to be empty
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	for _, field := range []string{"name", "description", "price", "quantity", "shipping", "color"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestInRuleKeepsParamIntact(t *testing.T) {
	errs := validate.Struct(productInput{
		Name:        "Widget",
		Description: "d",
		Price:       1,
		Quantity:    1,
		Shipping:    1,
		Color:       "red",
		Mode:        "bitcoin",
	})
	if _, ok := errs["mode"]; !ok {
		t.Error("expected mode to be rejected")
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Price float64 `json:"price" validate:"gte=0,lte=1000"`
	}
	if errs := validate.Struct(in{Price: -1}); !validate.HasErrors(errs) {
		t.Error("expected gte failure for negative price")
	}
	if errs := validate.Struct(in{Price: 1001}); !validate.HasErrors(errs) {
		t.Error("expected lte failure")
	}
	if errs := validate.Struct(in{Price: 10}); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestStringLengthRules(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required,min=2,max=5"`
	}
	if errs := validate.Struct(in{Name: "a"}); !validate.HasErrors(errs) {
		t.Error("expected min failure")
	}
	if errs := validate.Struct(in{Name: "abcdef"}); !validate.HasErrors(errs) {
		t.Error("expected max failure")
	}
	if errs := validate.Struct(in{Name: "abc"}); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestURLRule(t *testing.T) {
	type in struct {
		Site string `json:"site" validate:"required,url"`
	}
	if errs := validate.Struct(in{Site: "not-a-url"}); !validate.HasErrors(errs) {
		t.Error("expected url failure")
	}
	if errs := validate.Struct(in{Site: "https://example.com/x"}); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got %v", errs)
	}
}
