package validator

import "testing"

type transferInput struct {
	Phone  string `json:"phone" validate:"required,phone"`
	Amount string `json:"amount" validate:"required,amount"`
	Code   string `json:"otp" validate:"omitempty,otp"`
}

func TestValidateAcceptsWellFormedInput(t *testing.T) {
	errs := Validate(transferInput{Phone: "212600000001", Amount: "200.00", Code: "123456"})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateUsesJSONNames(t *testing.T) {
	errs := Validate(transferInput{Phone: "+212-600", Amount: "-5", Code: "12ab56"})
	for _, field := range []string{"phone", "amount", "otp"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %s, got %v", field, errs)
		}
	}
}

func TestValidateRejectsTooPreciseAmount(t *testing.T) {
	errs := Validate(transferInput{Phone: "212600000001", Amount: "1.001"})
	if _, ok := errs["amount"]; !ok {
		t.Fatalf("expected amount error, got %v", errs)
	}
}
