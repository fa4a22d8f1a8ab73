package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cihwallet/wallet-api/internal/pkg/money"
)

var validate *validator.Validate

// MSISDN in international form without the plus sign.
var phonePattern = regexp.MustCompile(`^[0-9]{9,15}$`)

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	// Positive decimal string with at most two fractional digits.
	validate.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := money.ParsePositive(fl.Field().String())
		return err == nil
	})

	validate.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		if len(code) != 6 {
			return false
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				return false
			}
		}
		return true
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range verrs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "oneof":
			errors[field] = "Must be one of: " + err.Param()
		case "phone":
			errors[field] = "Invalid phone number, expected 9 to 15 digits"
		case "amount":
			errors[field] = "Invalid amount, expected a positive value with at most two decimals"
		case "otp":
			errors[field] = "Invalid code, expected 6 digits"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}
