package validate_test

import (
	"testing"

	"github.com/bazario/catalog/pkg/validate"
)

type productInput struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"nullable,max=1000"`
	Price       string `json:"price"       validate:"required,numeric,gte=0"`
	Stock       string `json:"stock"       validate:"required,integer,gte=0"`
	CategoryID  string `json:"category_id" validate:"nullable,integer,gte=1"`
	Email       string `json:"email"       validate:"nullable,email"`
	Sort        string `json:"sort"        validate:"nullable,in=asc,desc"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(productInput{
		Name:  "Desk Lamp",
		Price: "19.99",
		Stock: "4",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"name", "price", "stock"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestZeroStringsPassRequired(t *testing.T) {
	// "0" is a legitimate price and stock; only the empty string is
	// missing.
	errs := validate.Struct(productInput{Name: "Free sample", Price: "0", Stock: "0"})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors for zero values, got: %v", errs)
	}
}

func TestNumericRejectsGarbage(t *testing.T) {
	errs := validate.Struct(productInput{Name: "x", Price: "cheap", Stock: "1"})
	if _, ok := errs["price"]; !ok {
		t.Error("expected price to fail numeric")
	}
}

func TestGTERejectsNegative(t *testing.T) {
	errs := validate.Struct(productInput{Name: "x", Price: "-1", Stock: "1"})
	if _, ok := errs["price"]; !ok {
		t.Error("expected negative price to fail gte=0")
	}
}

func TestIntegerRejectsFloat(t *testing.T) {
	errs := validate.Struct(productInput{Name: "x", Price: "1", Stock: "1.5"})
	if _, ok := errs["stock"]; !ok {
		t.Error("expected fractional stock to fail integer")
	}
}

func TestNullableSkipsEmpty(t *testing.T) {
	errs := validate.Struct(productInput{Name: "x", Price: "1", Stock: "1", Email: "", Sort: ""})
	if validate.HasErrors(errs) {
		t.Errorf("expected empty nullable fields to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	errs := validate.Struct(productInput{Name: "x", Price: "1", Stock: "1", Sort: "sideways"})
	if _, ok := errs["sort"]; !ok {
		t.Error("expected sort to fail in=asc,desc")
	}

	errs = validate.Struct(productInput{Name: "x", Price: "1", Stock: "1", Sort: "desc"})
	if _, ok := errs["sort"]; ok {
		t.Errorf("expected desc to pass, got: %v", errs["sort"])
	}
}

func TestEmailRule(t *testing.T) {
	errs := validate.Struct(productInput{Name: "x", Price: "1", Stock: "1", Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected invalid email to fail")
	}
}

func TestMaxLength(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	errs := validate.Struct(productInput{Name: string(long), Price: "1", Stock: "1"})
	if _, ok := errs["name"]; !ok {
		t.Error("expected over-long name to fail max=255")
	}
}
